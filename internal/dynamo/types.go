package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an autonomous or time-dependent ODE right-hand side.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator advances a state by one fixed step.
type Integrator interface {
	Step(dyn System, x State, t, dt float64) State
}

// AdaptiveIntegrator takes a trial step and reports whether it was accepted
// together with the step size to try next.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, t, dt float64, tol Tolerance) (next State, accepted bool, dtNext float64)
}

// Configurable models expose their parameters by name.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

// Tolerance is a mixed absolute/relative error bound: a component passes
// when |err| <= Abs + Rel*|x|.
type Tolerance struct {
	Rel float64
	Abs float64
}

type Config struct {
	Tolerance Tolerance
	// Dt is the step of fixed-step schemes.
	Dt float64
	// InitialDt seeds the adaptive step; zero lets the simulator choose.
	InitialDt float64
	// MaxDt caps adaptive steps; zero means no cap beyond the output spacing.
	MaxDt float64
	MinDt float64
	// MaxSteps bounds internal steps per output interval.
	MaxSteps      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Tolerance:     Tolerance{Rel: 1.49012e-8, Abs: 1.49012e-8},
		Dt:            0.01,
		MinDt:         1e-12,
		MaxSteps:      500,
		ValidateState: true,
	}
}
