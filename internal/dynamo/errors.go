package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNoSamples indicates a trajectory without any sample.
	ErrNoSamples = errors.New("dynamo: trajectory has no samples")

	// ErrUnknownBody indicates a primary body name with no preset.
	ErrUnknownBody = errors.New("dynamo: unknown primary body")

	// ErrUnknownPreset indicates a scenario preset that does not exist.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")
)

// ParamError reports which parameter failed validation.
type ParamError struct {
	Field string
	Value float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s = %g", ErrParameterBounds, e.Field, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrParameterBounds
}
