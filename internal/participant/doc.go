// Package participant provides device classification and presence
// tracking for world participants.
//
// # Classification
//
// The Classifier maps each participant to one of three device
// categories (VR, Mobile, Desktop) by reading the raw device signal
// the world runtime reports. Results are memoized per session: the
// first non-failing read fixes the category until the participant
// leaves. Unreadable signals and unknown raw values resolve to Desktop,
// so classification is total and never fails from the caller's view.
//
// Server-side agents are excluded by the name-sentinel rule: an entity
// with an empty name or the configured sentinel name ("Server" by
// default) always resolves to Desktop and never enters the cache.
//
// # Presence
//
// The Tracker counts live participants eagerly on join/leave, and
// evicts classification entries on leave. Joins do not classify;
// classification happens lazily on first dispatch.
//
// # Stats
//
// The Reporter combines both views into a Snapshot: total from the
// tracker, per-category counts from the classification cache. The
// totals can diverge because presence is eager and classification is
// lazy; that is expected behaviour, not drift.
package participant
