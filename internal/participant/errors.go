package participant

import "errors"

// Domain-specific errors for classification operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrOverrideDisabled is returned by ForceClassify when the
	// allow_device_override config flag is off.
	ErrOverrideDisabled = errors.New("participant: classification override disabled")

	// ErrInvalidCategory is returned when a category outside the closed
	// set is supplied to ForceClassify.
	ErrInvalidCategory = errors.New("participant: invalid device category")

	// ErrNonParticipant is returned when an operation targets an entity
	// excluded by the name-sentinel rule (server agents, unnamed handles).
	ErrNonParticipant = errors.New("participant: entity is not a classifiable participant")
)
