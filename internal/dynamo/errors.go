package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrMaxSteps indicates the step budget for one output interval ran out.
	ErrMaxSteps = errors.New("dynamo: too many internal steps between output points")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInvalidGrid indicates a time grid that cannot be built.
	ErrInvalidGrid = errors.New("dynamo: invalid time grid")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
