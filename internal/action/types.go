package action

import (
	"context"
	"time"

	"github.com/PratikJH153/universal-toolkit-core/internal/participant"
)

// Handler is a device-specific behaviour for an action.
//
// Handlers are side-effecting procedures; their only output is an
// error. A handler failure is caught at the dispatch boundary and
// never propagates to the triggering caller.
type Handler func(ctx context.Context, ic Context) error

// HandlerSet holds up to three optional handlers, one per device
// category. A partial set is valid authoring: fallback selection in
// the dispatcher fills the gaps (see Dispatcher.Trigger).
type HandlerSet struct {
	VR      Handler
	Mobile  Handler
	Desktop Handler
}

// ForCategory returns the handler registered for the category, or nil.
func (hs HandlerSet) ForCategory(category participant.Category) Handler {
	switch category {
	case participant.CategoryVR:
		return hs.VR
	case participant.CategoryMobile:
		return hs.Mobile
	case participant.CategoryDesktop:
		return hs.Desktop
	}
	return nil
}

// Empty reports whether the set contains no handlers at all.
func (hs HandlerSet) Empty() bool {
	return hs.VR == nil && hs.Mobile == nil && hs.Desktop == nil
}

// Context is the interaction context for a single dispatch.
//
// It is ephemeral: created per Trigger call, passed to the selected
// handler, never stored by the router.
type Context struct {
	// Participant performing the interaction.
	Participant participant.Participant

	// Target optionally identifies the scene object being interacted
	// with (e.g., "door-lobby").
	Target string

	// Payload carries optional free-form event data.
	Payload map[string]any
}

// Outcome is the terminal state of a dispatch.
type Outcome string

const (
	// OutcomeDispatched means a handler was selected and completed.
	OutcomeDispatched Outcome = "dispatched"

	// OutcomeUnregistered means no registration exists for the action
	// name. Callers may fire actions speculatively before every object
	// has registered, so this is a no-op, not an error.
	OutcomeUnregistered Outcome = "unregistered"

	// OutcomeNoHandler means the action is registered but its handler
	// set is empty.
	OutcomeNoHandler Outcome = "no_handler"

	// OutcomeHandlerFailed means the selected handler returned an
	// error or panicked. The failure was isolated at the dispatch
	// boundary.
	OutcomeHandlerFailed Outcome = "handler_failed"
)

// Result describes a single Trigger call. Trigger never returns an
// error; every path resolves to a Result.
type Result struct {
	// DispatchID uniquely identifies this dispatch for tracing.
	DispatchID string `json:"dispatch_id"`

	// Action is the triggered action name.
	Action string `json:"action"`

	// Category is the participant's resolved device category.
	// Empty for OutcomeUnregistered (classification never ran).
	Category participant.Category `json:"category,omitempty"`

	// HandlerCategory is the category of the handler actually invoked,
	// which differs from Category when fallback selection applied.
	HandlerCategory participant.Category `json:"handler_category,omitempty"`

	// Outcome is the terminal state of the dispatch.
	Outcome Outcome `json:"outcome"`

	// Error holds the handler failure message for OutcomeHandlerFailed.
	Error string `json:"error,omitempty"`

	// Duration is the total dispatch time including handler execution.
	Duration time.Duration `json:"-"`
}

// DurationMS returns the dispatch duration in milliseconds for
// telemetry and audit records.
func (r Result) DurationMS() float64 {
	return float64(r.Duration.Microseconds()) / 1000.0
}

// DispatchRecord is the persisted audit form of a dispatch result.
type DispatchRecord struct {
	ID              string    `json:"id"`
	Action          string    `json:"action"`
	ParticipantID   string    `json:"participant_id"`
	Category        string    `json:"category"`
	HandlerCategory string    `json:"handler_category"`
	Outcome         string    `json:"outcome"`
	Target          string    `json:"target,omitempty"`
	Error           *string   `json:"error,omitempty"`
	DurationMS      float64   `json:"duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}
