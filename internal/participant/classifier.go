package participant

import (
	"sync"
)

// Logger defines the logging interface used by this package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// DefaultSentinelName marks server-side agents that must never be
// classified or counted as participants.
const DefaultSentinelName = "Server"

// Options configures classifier behaviour. Zero value gives the
// defaults: overrides disabled, quiet diagnostics, "Server" sentinel.
type Options struct {
	// AllowOverride gates ForceClassify. Off by default; intended for
	// tests and manual operator intervention only.
	AllowOverride bool

	// Verbose enables info-level diagnostics (skip notices, cache
	// population). Warnings and errors are always emitted.
	Verbose bool

	// SentinelName overrides the non-participant sentinel.
	// Empty means DefaultSentinelName.
	SentinelName string
}

// Classifier maps participants to device categories, memoizing results.
//
// Classification is lazy and sticky: the first non-failing raw-signal
// read fixes a participant's category for the rest of their session,
// until Forget removes the entry. The cache holds at most one entry per
// live participant.
//
// All public methods are thread-safe.
type Classifier struct {
	cache  map[string]Category
	mu     sync.RWMutex
	opts   Options
	logger Logger
}

// NewClassifier creates a classifier with the given options.
func NewClassifier(opts Options) *Classifier {
	if opts.SentinelName == "" {
		opts.SentinelName = DefaultSentinelName
	}
	return &Classifier{
		cache:  make(map[string]Category),
		opts:   opts,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the classifier.
func (c *Classifier) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	c.logger = logger
}

// IsNonParticipant reports whether the entity is excluded by the
// name-sentinel rule: an empty name or the configured sentinel marks a
// server-side agent that must never be classified or counted.
func (c *Classifier) IsNonParticipant(p Participant) bool {
	if p == nil {
		return true
	}
	name := p.Name()
	return name == "" || name == c.opts.SentinelName
}

// Classify resolves the participant's device category.
//
// Resolution order:
//  1. Non-participants resolve to Desktop without touching the cache.
//  2. A cached entry is returned unchanged (sticky for the session).
//  3. Otherwise the raw signal is read once, mapped (VR->VR,
//     Mobile->Mobile, everything else->Desktop), cached, and returned.
//
// A failed raw-signal read resolves to Desktop without caching, so the
// next call retries the read. Classify never fails from the caller's
// perspective; it always returns a valid category.
func (c *Classifier) Classify(p Participant) Category {
	if c.IsNonParticipant(p) {
		if c.opts.Verbose {
			c.logger.Info("classification skipped for non-participant",
				"name", entityName(p),
			)
		}
		return CategoryDesktop
	}

	id := p.ID()

	c.mu.RLock()
	cached, ok := c.cache[id]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	raw, err := p.DeviceType()
	if err != nil {
		// Not cached: the next call retries the read, so the first
		// non-failing classification still fixes the category.
		c.logger.Error("device signal read failed",
			"participant_id", id,
			"error", err,
		)
		return CategoryDesktop
	}

	category := mapRaw(raw)

	c.mu.Lock()
	c.cache[id] = category
	c.mu.Unlock()

	if c.opts.Verbose {
		c.logger.Info("participant classified",
			"participant_id", id,
			"raw_signal", string(raw),
			"category", string(category),
		)
	}

	return category
}

// ForceClassify writes a category directly into the cache, bypassing
// the raw-signal read. Gated by the allow_device_override config flag;
// when disabled it changes no state, emits a warning, and returns
// ErrOverrideDisabled.
func (c *Classifier) ForceClassify(p Participant, category Category) error {
	if !c.opts.AllowOverride {
		c.logger.Warn("classification override rejected",
			"participant_id", entityID(p),
			"category", string(category),
		)
		return ErrOverrideDisabled
	}

	if !category.Valid() {
		return ErrInvalidCategory
	}

	if c.IsNonParticipant(p) {
		c.logger.Warn("classification override skipped for non-participant",
			"name", entityName(p),
		)
		return ErrNonParticipant
	}

	c.mu.Lock()
	c.cache[p.ID()] = category
	c.mu.Unlock()

	c.logger.Warn("classification overridden",
		"participant_id", p.ID(),
		"category", string(category),
	)
	return nil
}

// Forget removes the participant's cache entry. Called by the session
// lifecycle hook when a participant disconnects; the classifier itself
// never observes connect/disconnect events.
func (c *Classifier) Forget(p Participant) {
	if p == nil {
		return
	}
	c.ForgetID(p.ID())
}

// ForgetID removes the cache entry for a participant identifier.
func (c *Classifier) ForgetID(id string) {
	c.mu.Lock()
	delete(c.cache, id)
	c.mu.Unlock()
}

// Lookup returns the cached category for a participant identifier
// without triggering classification.
func (c *Classifier) Lookup(id string) (Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	category, ok := c.cache[id]
	return category, ok
}

// Counts holds per-category totals of cached classifications.
type Counts struct {
	VR      int
	Mobile  int
	Desktop int
}

// Counts returns the number of cached entries per category.
// Only classified participants are counted; presence is tracked
// separately (see Tracker).
func (c *Classifier) Counts() Counts {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var counts Counts
	for _, category := range c.cache {
		switch category {
		case CategoryVR:
			counts.VR++
		case CategoryMobile:
			counts.Mobile++
		case CategoryDesktop:
			counts.Desktop++
		}
	}
	return counts
}

// Size returns the number of cached classification entries.
func (c *Classifier) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// entityID safely extracts an ID for diagnostics (p may be nil).
func entityID(p Participant) string {
	if p == nil {
		return ""
	}
	return p.ID()
}

// entityName safely extracts a name for diagnostics (p may be nil).
func entityName(p Participant) string {
	if p == nil {
		return ""
	}
	return p.Name()
}
