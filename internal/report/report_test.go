package report

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/coopsim/internal/metrics"
	"github.com/san-kum/coopsim/internal/models"
)

var twoDecimals = regexp.MustCompile(`^[A-Za-z0-9 ]+: -?\d+\.\d{2}$`)

func TestFormat_Exact(t *testing.T) {
	s := metrics.Summary{Region1Final: 233.456, Region2Final: 148.1, TotalGrowth: 341.556, SynergyIndex: 86.4999}

	got := Format(models.DefaultParams(), s)

	want := `International Cooperation Analysis
===============================

Model Parameters:
Technology Transfer Rate: 0.30
Trade Growth Rate: 0.20
Collaboration Factor: 0.40
Resource Constraint: 0.10

Results:
Region 1 Final Level: 233.46
Region 2 Final Level: 148.10
Total Growth: 341.56
Synergy Index: 86.50
`
	assert.Equal(t, want, got)
}

func TestFormat_Structure(t *testing.T) {
	p := models.CooperationParams{A: 1.234, B: -0.005, C: 12, D: 0}
	s := metrics.Summary{Region1Final: 1e6, Region2Final: -2.5, TotalGrowth: 0, SynergyIndex: 1}

	lines := strings.Split(strings.TrimSuffix(Format(p, s), "\n"), "\n")

	paramIdx := indexOf(lines, "Model Parameters:")
	resultIdx := indexOf(lines, "Results:")
	require.GreaterOrEqual(t, paramIdx, 0)
	require.Greater(t, resultIdx, paramIdx)

	params := lines[paramIdx+1 : paramIdx+5]
	assert.Equal(t, "", lines[paramIdx+5])
	results := lines[resultIdx+1:]
	require.Len(t, results, 4)

	wantParams := []string{TechTransferLabel, TradeGrowthLabel, CollaborationLabel, ResourceLabel}
	for i, line := range params {
		assert.True(t, strings.HasPrefix(line, wantParams[i]+": "), "param line %d: %q", i, line)
		assert.Regexp(t, twoDecimals, line)
	}

	wantResults := []string{metrics.Region1Final, metrics.Region2Final, metrics.TotalGrowth, metrics.SynergyIndex}
	for i, line := range results {
		assert.True(t, strings.HasPrefix(line, wantResults[i]+": "), "result line %d: %q", i, line)
		assert.Regexp(t, twoDecimals, line)
	}
}

func indexOf(lines []string, s string) int {
	for i, l := range lines {
		if l == s {
			return i
		}
	}
	return -1
}
