package world

import "errors"

// Domain-specific errors for the world bridge.
var (
	// ErrNoDeviceSignal indicates a roster entry has no reported raw
	// device signal. The classifier treats this as a failed read and
	// resolves to Desktop without caching.
	ErrNoDeviceSignal = errors.New("world: no device signal reported")

	// ErrMissingParticipantID indicates a world message without the
	// required participant identifier.
	ErrMissingParticipantID = errors.New("world: message missing participant_id")

	// ErrMissingAction indicates an interaction event without an
	// action name.
	ErrMissingAction = errors.New("world: interaction missing action")
)
