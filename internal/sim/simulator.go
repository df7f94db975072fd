package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/coopsim/internal/dynamo"
)

// Observer is notified once per output sample, in time order.
type Observer interface {
	OnSample(i int, x dynamo.State, t float64)
}

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	observers  []Observer
	stats      Stats
}

// Stats counts the work done by the last run.
type Stats struct {
	Accepted int
	Rejected int
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Stats() Stats { return s.stats }

// Run integrates from x0 at t=0 across grid and returns the states sampled
// at every grid point. Adaptive integrators never step past a grid point, so
// samples are exact step endpoints rather than interpolants.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, grid dynamo.TimeGrid, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	if err := s.validate(x0, grid, cfg); err != nil {
		return nil, err
	}

	s.stats = Stats{}
	n := grid.Len()
	tr := &dynamo.Trajectory{
		Times:  grid.Points(),
		States: make([]dynamo.State, 0, n),
	}

	x := x0.Clone()
	tr.States = append(tr.States, x.Clone())
	s.notify(0, x, 0)

	adaptive, isAdaptive := s.integrator.(dynamo.AdaptiveIntegrator)
	dt := s.initialStep(grid, cfg)

	for i := 1; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, &dynamo.SimulationError{Step: i, Time: grid.At(i - 1), State: x, Wrapped: fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())}
		default:
		}

		var err error
		if isAdaptive {
			x, dt, err = s.advanceAdaptive(adaptive, x, grid.At(i-1), grid.At(i), dt, cfg)
		} else {
			x, err = s.advanceFixed(x, grid.At(i-1), grid.At(i), cfg)
		}
		if err != nil {
			return nil, err
		}

		tr.States = append(tr.States, x.Clone())
		s.notify(i, x, grid.At(i))
	}

	return tr, nil
}

func (s *Simulator) validate(x0 dynamo.State, grid dynamo.TimeGrid, cfg dynamo.Config) error {
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: initial state has %d components, system needs %d", dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if grid.Len() == 0 {
		return fmt.Errorf("%w: empty grid", dynamo.ErrInvalidGrid)
	}
	if cfg.ValidateState && !x0.IsValid() {
		return &dynamo.SimulationError{State: x0, Wrapped: dynamo.ErrInvalidState}
	}
	if _, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
		if cfg.Tolerance.Rel <= 0 || cfg.Tolerance.Abs <= 0 {
			return fmt.Errorf("tolerance must be positive for adaptive stepping")
		}
		if cfg.MinDt <= 0 {
			return fmt.Errorf("min dt must be positive, got %g", cfg.MinDt)
		}
	} else if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", cfg.MaxSteps)
	}
	return nil
}

func (s *Simulator) initialStep(grid dynamo.TimeGrid, cfg dynamo.Config) float64 {
	if cfg.InitialDt > 0 {
		return cfg.InitialDt
	}
	dt := 1e-3
	if grid.Len() > 1 {
		dt = math.Min(dt, grid.At(1)-grid.At(0))
	}
	return dt
}

func (s *Simulator) advanceAdaptive(integ dynamo.AdaptiveIntegrator, x dynamo.State, t, tEnd, dt float64, cfg dynamo.Config) (dynamo.State, float64, error) {
	steps := 0
	for t < tEnd {
		if steps >= cfg.MaxSteps {
			return nil, dt, &dynamo.SimulationError{Step: s.stats.Accepted, Time: t, State: x, Wrapped: dynamo.ErrMaxSteps}
		}
		steps++

		if cfg.MaxDt > 0 && dt > cfg.MaxDt {
			dt = cfg.MaxDt
		}

		h := dt
		last := false
		if t+h >= tEnd-1e-12*math.Max(1, math.Abs(tEnd)) {
			h = tEnd - t
			last = true
		}

		next, ok, dtNext := integ.StepAdaptive(s.dyn, x, t, h, cfg.Tolerance)

		if !ok {
			s.stats.Rejected++
			dt = dtNext
			if dt < cfg.MinDt || math.IsNaN(dt) {
				return nil, dt, &dynamo.SimulationError{Step: s.stats.Accepted, Time: t, State: x, Wrapped: dynamo.ErrStepTooSmall}
			}
			continue
		}

		if cfg.ValidateState && !next.IsValid() {
			return nil, dt, &dynamo.SimulationError{Step: s.stats.Accepted, Time: t + h, State: x, Wrapped: dynamo.ErrInvalidState}
		}

		s.stats.Accepted++
		x = next
		if last {
			t = tEnd
			// clipped steps must not shrink the next guess
			dt = math.Max(dt, dtNext)
		} else {
			t += h
			dt = dtNext
		}
	}
	return x, dt, nil
}

func (s *Simulator) advanceFixed(x dynamo.State, t, tEnd float64, cfg dynamo.Config) (dynamo.State, error) {
	span := tEnd - t
	nsub := int(math.Ceil(span/cfg.Dt - 1e-9))
	if nsub < 1 {
		nsub = 1
	}
	if nsub > cfg.MaxSteps {
		return nil, &dynamo.SimulationError{Step: s.stats.Accepted, Time: t, State: x, Wrapped: dynamo.ErrMaxSteps}
	}
	h := span / float64(nsub)

	for k := 0; k < nsub; k++ {
		next := s.integrator.Step(s.dyn, x, t, h)
		if cfg.ValidateState && !next.IsValid() {
			return nil, &dynamo.SimulationError{Step: s.stats.Accepted, Time: t + h, State: x, Wrapped: dynamo.ErrInvalidState}
		}
		s.stats.Accepted++
		x = next
		t += h
	}
	return x, nil
}

func (s *Simulator) notify(i int, x dynamo.State, t float64) {
	for _, obs := range s.observers {
		obs.OnSample(i, x, t)
	}
}
