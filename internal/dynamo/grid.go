package dynamo

import (
	"fmt"
	"math"
)

// SamplesPerUnit is the output density of a run: points per unit of time.
const SamplesPerUnit = 12

// MaxGridPoints bounds the size of a time grid.
const MaxGridPoints = 10_000_000

// TimeGrid is an immutable, evenly spaced set of sample times from 0 to the
// horizon, endpoints included.
type TimeGrid struct {
	horizon float64
	points  []float64
}

// NewTimeGrid builds round(horizon*perUnit) points spanning [0, horizon].
// A grid always holds at least t=0, so a zero horizon yields a single point.
// Horizons needing more than MaxGridPoints points are rejected.
func NewTimeGrid(horizon float64, perUnit int) (TimeGrid, error) {
	if math.IsNaN(horizon) || math.IsInf(horizon, 0) || horizon < 0 {
		return TimeGrid{}, fmt.Errorf("%w: horizon %v", ErrInvalidGrid, horizon)
	}
	if perUnit <= 0 {
		return TimeGrid{}, fmt.Errorf("%w: %d points per unit", ErrInvalidGrid, perUnit)
	}

	f := math.Round(horizon * float64(perUnit))
	if f > MaxGridPoints {
		return TimeGrid{}, fmt.Errorf("%w: horizon %v needs %.0f points, limit is %d", ErrInvalidGrid, horizon, f, MaxGridPoints)
	}

	n := int(f)
	if n < 2 {
		return TimeGrid{horizon: horizon, points: []float64{0}}, nil
	}

	points := make([]float64, n)
	step := horizon / float64(n-1)
	for i := range points {
		points[i] = float64(i) * step
	}
	points[n-1] = horizon

	return TimeGrid{horizon: horizon, points: points}, nil
}

func (g TimeGrid) Len() int {
	return len(g.points)
}

func (g TimeGrid) Horizon() float64 {
	return g.horizon
}

func (g TimeGrid) At(i int) float64 {
	return g.points[i]
}

// Points returns a copy of the sample times.
func (g TimeGrid) Points() []float64 {
	out := make([]float64, len(g.points))
	copy(out, g.points)
	return out
}

// Trajectory is a run's solution sampled on its time grid.
type Trajectory struct {
	Times  []float64
	States []State
}

func (tr *Trajectory) Len() int { return len(tr.States) }

func (tr *Trajectory) First() State { return tr.States[0] }

func (tr *Trajectory) Last() State { return tr.States[len(tr.States)-1] }

// Component extracts state variable idx across the whole run.
func (tr *Trajectory) Component(idx int) []float64 {
	out := make([]float64, len(tr.States))
	for i, s := range tr.States {
		out[i] = s[idx]
	}
	return out
}
