package action

import (
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry and
// Dispatcher. This allows different logging implementations to be used.
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

// Registry maps action names to handler sets.
//
// Independent scene objects register their actions during setup;
// registrations live for the router's lifetime unless Clear is called.
// Re-registration under an existing name is last-write-wins and emits
// a warning (a common, legitimate pattern during object hot-reload).
//
// All public methods are thread-safe.
type Registry struct {
	handlers map[string]HandlerSet
	mu       sync.RWMutex
	logger   Logger
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]HandlerSet),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// Register stores a handler set under an action name.
//
// If the name already exists the previous set is discarded
// (last-write-wins) and a warning is emitted. An empty name returns
// ErrInvalidName.
func (r *Registry) Register(name string, hs HandlerSet) error {
	if name == "" {
		return ErrInvalidName
	}

	r.mu.Lock()
	_, replaced := r.handlers[name]
	r.handlers[name] = hs
	r.mu.Unlock()

	if replaced {
		r.logger.Warn("action re-registered, previous handlers discarded",
			"action", name,
		)
	}
	return nil
}

// Lookup returns the handler set for an action name.
func (r *Registry) Lookup(name string) (HandlerSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hs, ok := r.handlers[name]
	return hs, ok
}

// Names returns all registered action names, sorted for determinism.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes all registrations atomically. Concurrent lookups see
// either the full registry or an empty one, never partial state.
func (r *Registry) Clear() {
	r.mu.Lock()
	count := len(r.handlers)
	r.handlers = make(map[string]HandlerSet)
	r.mu.Unlock()

	if count > 0 {
		r.logger.Info("action registry cleared", "removed", count)
	}
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
