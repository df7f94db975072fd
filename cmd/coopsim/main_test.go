package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/coopsim/internal/config"
	"github.com/san-kum/coopsim/internal/metrics"
	"github.com/san-kum/coopsim/internal/report"
	"github.com/san-kum/coopsim/internal/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaultRunReport(t *testing.T) {
	out, err := execute(t, "--no-plot")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, report.Title+"\n"))
	assert.Contains(t, out, "Technology Transfer Rate: 0.30\n")
	assert.Contains(t, out, "Region 1 Final Level: 232.45\n")
	assert.Contains(t, out, "Region 2 Final Level: 149.79\n")
	assert.Contains(t, out, "Total Growth: 342.23\n")
	assert.Contains(t, out, "Synergy Index: 87.04\n")
	assert.True(t, strings.HasSuffix(out, "Synergy Index: 87.04\n\n"), "report is followed by a blank line")
}

func TestStaticPlotWhenNotATerminal(t *testing.T) {
	out, err := execute(t, "--years", "5")
	require.NoError(t, err)
	assert.Contains(t, out, viz.TimeSeriesTitle)
	assert.Contains(t, out, viz.PhaseTitle)
}

func TestFlagsOverrideParams(t *testing.T) {
	out, err := execute(t, "--no-plot", "--a", "0", "--b", "0", "--c", "0", "--d", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Growth: 0.00\n")
	assert.Contains(t, out, "Synergy Index: 1.00\n")
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("years: 10\nparams:\n  a: 0.5\n  d: 0.3\n"), 0644))

	// preset long-run sets 200 years, the file 10, the environment 0
	t.Setenv("COOPSIM_YEARS", "0")

	out, err := execute(t, "--no-plot", "--preset", "long-run", "--config", path, "--a", "0.7")
	require.NoError(t, err)
	assert.Contains(t, out, "Technology Transfer Rate: 0.70\n", "flag beats config file")
	assert.Contains(t, out, "Resource Constraint: 0.30\n", "config file beats preset")
	assert.Contains(t, out, "Collaboration Factor: 0.40\n")
	assert.Contains(t, out, "Synergy Index: 1.00\n", "environment beats config file")
}

func TestUnknownPreset(t *testing.T) {
	_, err := execute(t, "--no-plot", "--preset", "nope")
	assert.ErrorIs(t, err, config.ErrUnknownPreset)
}

func TestUnknownIntegrator(t *testing.T) {
	_, err := execute(t, "--no-plot", "--integrator", "lsoda")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown integrator")
}

func TestZeroInitialState(t *testing.T) {
	_, err := execute(t, "--no-plot", "--r1", "0")
	assert.ErrorIs(t, err, metrics.ErrZeroInitialState)
}

func TestHugeHorizonFails(t *testing.T) {
	out, err := execute(t, "--no-plot", "--years", "1e18")
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.NotContains(t, out, "Synergy Index")
}

func TestFigureFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.svg")
	_, err := execute(t, "--no-plot", "--years", "5", "--figure", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), viz.PhaseTitle)
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	for _, name := range config.ListPresets() {
		assert.Contains(t, out, name)
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "--years", "10", "rk4", "rk45", "bogus")
	require.NoError(t, err)
	assert.Contains(t, out, "rk4 ")
	assert.Contains(t, out, "rk45 ")
	assert.Contains(t, out, "bogus")
	assert.Contains(t, out, "error: unknown integrator")
}
