package participant

import "sync"

// Tracker maintains the live-participant count for a world session.
//
// Presence is eager (counted on join) while classification is lazy
// (cached on first Classify call), so the live count may exceed the
// classifier's cache size. That divergence is expected.
//
// All public methods are thread-safe.
type Tracker struct {
	classifier *Classifier
	logger     Logger

	mu   sync.Mutex
	live int
}

// NewTracker creates a presence tracker bound to a classifier.
// The classifier is used for non-participant filtering and for cache
// eviction on leave.
func NewTracker(classifier *Classifier) *Tracker {
	return &Tracker{
		classifier: classifier,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the tracker.
func (t *Tracker) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	t.logger = logger
}

// HandleJoin records a participant joining the world.
//
// Joins increment the live count but never classify: classification
// stays lazy, triggered by the first dispatch or explicit Classify
// call. Non-participants (sentinel rule) are not counted.
func (t *Tracker) HandleJoin(p Participant) {
	if t.classifier.IsNonParticipant(p) {
		return
	}

	t.mu.Lock()
	t.live++
	live := t.live
	t.mu.Unlock()

	if t.classifier.opts.Verbose {
		t.logger.Info("participant joined",
			"participant_id", p.ID(),
			"live_count", live,
		)
	}
}

// HandleLeave records a participant leaving the world.
//
// The live count is decremented (floored at zero) and the participant's
// classification entry is evicted so a rejoin re-reads the raw signal.
func (t *Tracker) HandleLeave(p Participant) {
	if t.classifier.IsNonParticipant(p) {
		return
	}

	t.mu.Lock()
	if t.live > 0 {
		t.live--
	}
	live := t.live
	t.mu.Unlock()

	t.classifier.Forget(p)

	if t.classifier.opts.Verbose {
		t.logger.Info("participant left",
			"participant_id", p.ID(),
			"live_count", live,
		)
	}
}

// LiveCount returns the current number of live participants.
func (t *Tracker) LiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}
