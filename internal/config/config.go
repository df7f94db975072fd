package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/coopsim/internal/dynamo"
	"github.com/san-kum/coopsim/internal/models"
)

const (
	DefaultYears      = 50.0
	DefaultRegion     = 20.0
	DefaultIntegrator = "rk45"
	DefaultDt         = 0.01
	DefaultMaxSteps   = 500
	DefaultTolerance  = 1.49012e-8

	// EnvPrefix namespaces environment overrides, e.g. COOPSIM_YEARS.
	EnvPrefix = "COOPSIM_"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Params     models.CooperationParams `yaml:"params" envPrefix:"PARAMS_"`
	InitState  InitStateConfig          `yaml:"init_state" envPrefix:"INIT_"`
	Years      float64                  `yaml:"years" env:"YEARS"`
	Integrator string                   `yaml:"integrator" env:"INTEGRATOR"`
	Solver     SolverConfig             `yaml:"solver" envPrefix:"SOLVER_"`
}

type InitStateConfig struct {
	Region1 float64 `yaml:"region1" env:"REGION1"`
	Region2 float64 `yaml:"region2" env:"REGION2"`
}

type SolverConfig struct {
	RTol     float64 `yaml:"rtol" env:"RTOL"`
	ATol     float64 `yaml:"atol" env:"ATOL"`
	Dt       float64 `yaml:"dt" env:"DT"`
	MaxSteps int     `yaml:"max_steps" env:"MAX_STEPS"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: models.DefaultParams(),
		InitState: InitStateConfig{
			Region1: DefaultRegion,
			Region2: DefaultRegion,
		},
		Years:      DefaultYears,
		Integrator: DefaultIntegrator,
		Solver: SolverConfig{
			RTol:     DefaultTolerance,
			ATol:     DefaultTolerance,
			Dt:       DefaultDt,
			MaxSteps: DefaultMaxSteps,
		},
	}
}

// LoadOnto reads a YAML file on top of base; keys missing from the file
// keep the values of base.
func LoadOnto(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from COOPSIM_* environment variables. Unset
// variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if math.IsNaN(c.Years) || math.IsInf(c.Years, 0) || c.Years < 0 {
		return fmt.Errorf("%w: years must be a non-negative number, got %v", ErrInvalid, c.Years)
	}
	if math.Round(c.Years*dynamo.SamplesPerUnit) > dynamo.MaxGridPoints {
		return fmt.Errorf("%w: years %g exceeds the %d sample limit", ErrInvalid, c.Years, dynamo.MaxGridPoints)
	}
	if c.Integrator == "" {
		return fmt.Errorf("%w: integrator is required", ErrInvalid)
	}
	if c.Solver.RTol <= 0 || c.Solver.ATol <= 0 {
		return fmt.Errorf("%w: tolerances must be positive (rtol=%g, atol=%g)", ErrInvalid, c.Solver.RTol, c.Solver.ATol)
	}
	if c.Solver.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Solver.Dt)
	}
	if c.Solver.MaxSteps <= 0 {
		return fmt.Errorf("%w: max_steps must be positive, got %d", ErrInvalid, c.Solver.MaxSteps)
	}
	return nil
}

func (c *Config) GetInitState() dynamo.State {
	return dynamo.State{c.InitState.Region1, c.InitState.Region2}
}

// SimConfig maps the solver section onto the simulator's settings.
func (c *Config) SimConfig() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Tolerance = dynamo.Tolerance{Rel: c.Solver.RTol, Abs: c.Solver.ATol}
	cfg.Dt = c.Solver.Dt
	cfg.MaxSteps = c.Solver.MaxSteps
	return cfg
}
