package action

import "errors"

// Domain-specific errors for the action registry and dispatch log.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidName is returned when registering with an empty action name.
	ErrInvalidName = errors.New("action: name cannot be empty")

	// ErrDispatchNotFound is returned when a dispatch record does not exist.
	ErrDispatchNotFound = errors.New("action: dispatch record not found")
)
