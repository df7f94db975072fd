// Package experiment runs the full cooperation pipeline for one explicit
// configuration: build the model, integrate it over the time grid and
// reduce the trajectory to its summary metrics.
package experiment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/san-kum/coopsim/internal/config"
	"github.com/san-kum/coopsim/internal/dynamo"
	"github.com/san-kum/coopsim/internal/logger"
	"github.com/san-kum/coopsim/internal/metrics"
	"github.com/san-kum/coopsim/internal/models"
	"github.com/san-kum/coopsim/internal/sim"
)

type Result struct {
	Params     models.CooperationParams
	Integrator string
	Trajectory *dynamo.Trajectory
	Summary    metrics.Summary
	Stats      sim.Stats
	Elapsed    time.Duration
}

type Experiment struct {
	cfg       *config.Config
	model     *models.Cooperation
	grid      dynamo.TimeGrid
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

func (e *Experiment) Setup(registry *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	integ, err := registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	grid, err := dynamo.NewTimeGrid(e.cfg.Years, dynamo.SamplesPerUnit)
	if err != nil {
		return err
	}

	e.model = models.NewCooperation(e.cfg.Params)
	e.grid = grid
	e.simulator = sim.New(e.model, integ)
	if logger.IsVerbose() {
		e.simulator.AddObserver(newProgressLog(grid.Len()))
	}

	logParams(e.model)
	logger.Debug("grid: %d points over %.2f years, integrator %s", grid.Len(), grid.Horizon(), e.cfg.Integrator)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	start := time.Now()
	tr, err := e.simulator.Run(ctx, e.cfg.GetInitState(), e.grid, e.cfg.SimConfig())
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	elapsed := time.Since(start)

	stats := e.simulator.Stats()
	logger.Info("integrated %d samples in %v (%d accepted, %d rejected steps)", tr.Len(), elapsed, stats.Accepted, stats.Rejected)

	summary, err := metrics.Calculate(tr)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	return &Result{
		Params:     e.model.Params(),
		Integrator: e.cfg.Integrator,
		Trajectory: tr,
		Summary:    summary,
		Stats:      stats,
		Elapsed:    elapsed,
	}, nil
}

// Run sets up and runs cfg against the default registry.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	exp := New(cfg)
	if err := exp.Setup(NewRegistry()); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func logParams(m dynamo.Configurable) {
	params := m.GetParams()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logger.Debug("param %s = %.4f", name, params[name])
	}
}

type progressLog struct {
	every int
	total int
}

func newProgressLog(total int) *progressLog {
	every := total / 10
	if every < 1 {
		every = 1
	}
	return &progressLog{every: every, total: total}
}

func (p *progressLog) OnSample(i int, x dynamo.State, t float64) {
	if i%p.every == 0 || i == p.total-1 {
		logger.Debug("t=%7.3f region1=%10.4f region2=%10.4f", t, x[0], x[1])
	}
}
