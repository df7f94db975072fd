package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/coopsim/internal/models"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

var Presets = map[string]*Config{
	"default":   DefaultConfig(),
	"balanced":  withParams(models.CooperationParams{A: 0.25, B: 0.25, C: 0.25, D: 0.25}),
	"isolated":  withParams(models.CooperationParams{A: 0.3, B: 0.0, C: 0.2, D: 0.0}),
	"dependent": withParams(models.CooperationParams{A: 0.05, B: 0.6, C: 0.3, D: 0.05}),
	"stagnant":  withParams(models.CooperationParams{}),
	"mirrored":  withParams(models.DefaultParams().Mirror()),
	"long-run":  withYears(200),
}

func withYears(years float64) *Config {
	c := DefaultConfig()
	c.Years = years
	return c
}

func withParams(p models.CooperationParams) *Config {
	c := DefaultConfig()
	c.Params = p
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPreset is GetPreset with an error naming the available presets.
func LookupPreset(name string) (*Config, error) {
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return cfg, nil
}
