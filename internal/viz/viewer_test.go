package viz

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(v *Viewer, msg tea.KeyMsg) tea.Cmd {
	_, cmd := v.Update(msg)
	return cmd
}

func TestViewerStartsAtEnd(t *testing.T) {
	v := NewViewer(rampTrajectory(30))
	assert.Equal(t, 29, v.Cursor())
	assert.Equal(t, PanelTimeSeries, v.Focus())
	assert.Nil(t, v.Init())
}

func TestViewerScrub(t *testing.T) {
	v := NewViewer(rampTrajectory(30))

	press(v, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 29, v.Cursor(), "cursor clamps at the last sample")

	press(v, tea.KeyMsg{Type: tea.KeyLeft})
	press(v, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	assert.Equal(t, 27, v.Cursor())

	press(v, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, v.Cursor())

	press(v, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, v.Cursor())

	press(v, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	assert.Equal(t, 1, v.Cursor())

	press(v, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 29, v.Cursor())
}

func TestViewerTabSwitchesFocus(t *testing.T) {
	v := NewViewer(rampTrajectory(10))
	press(v, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, PanelPhase, v.Focus())
	press(v, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, PanelTimeSeries, v.Focus())
}

func TestViewerQuit(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewer(rampTrajectory(10))
			cmd := press(v, tt.key)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, v.View())
		})
	}
}

func TestViewerView(t *testing.T) {
	v := NewViewer(rampTrajectory(40))
	v.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	press(v, tea.KeyMsg{Type: tea.KeyHome})

	out := v.View()
	assert.Contains(t, out, TimeSeriesTitle)
	assert.Contains(t, out, PhaseTitle)
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "time series")

	v.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.Contains(t, v.View(), PhaseTitle)
}
