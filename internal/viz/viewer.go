package viz

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/coopsim/internal/dynamo"
)

// Panel identifies one of the two views of a run.
type Panel int

const (
	PanelTimeSeries Panel = iota
	PanelPhase
)

func (p Panel) String() string {
	switch p {
	case PanelTimeSeries:
		return "time series"
	case PanelPhase:
		return "phase space"
	default:
		return "unknown"
	}
}

// Viewer is the plot window: both views of a finished run with a time
// cursor that can be scrubbed along the trajectory.
type Viewer struct {
	tr       *dynamo.Trajectory
	cursor   int
	focus    Panel
	width    int
	height   int
	quitting bool
}

func NewViewer(tr *dynamo.Trajectory) *Viewer {
	return &Viewer{
		tr:     tr,
		cursor: max(0, tr.Len()-1),
		width:  120,
		height: 40,
	}
}

func (v *Viewer) Cursor() int {
	return v.cursor
}

func (v *Viewer) Focus() Panel {
	return v.focus
}

func (v *Viewer) Init() tea.Cmd {
	return nil
}

func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	}
	return v, nil
}

func (v *Viewer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := max(1, v.tr.Len()/100)

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		v.quitting = true
		return v, tea.Quit
	case "tab":
		v.focus = (v.focus + 1) % 2
	case "left", "h":
		v.moveCursor(-1)
	case "right", "l":
		v.moveCursor(1)
	case "shift+left", "H":
		v.moveCursor(-step)
	case "shift+right", "L":
		v.moveCursor(step)
	case "home", "g":
		v.cursor = 0
	case "end", "G":
		v.cursor = max(0, v.tr.Len()-1)
	}
	return v, nil
}

func (v *Viewer) moveCursor(delta int) {
	v.cursor += delta
	if v.cursor < 0 {
		v.cursor = 0
	}
	if last := v.tr.Len() - 1; v.cursor > last {
		v.cursor = max(0, last)
	}
}

func (v *Viewer) View() string {
	if v.quitting {
		return ""
	}

	// Side by side when the terminal is wide enough, stacked otherwise.
	wide := v.width >= 110
	seriesWidth := v.width - 16
	if wide {
		seriesWidth = v.width/2 - 14
	}
	seriesWidth = max(20, seriesWidth)
	plotHeight := max(6, v.height/3)

	seriesStyle, phaseStyle := panelStyle, panelStyle
	if v.focus == PanelTimeSeries {
		seriesStyle = focusedPanelStyle
	} else {
		phaseStyle = focusedPanelStyle
	}

	series := seriesStyle.Render(TimeSeries(v.tr, seriesWidth, plotHeight))
	phase := phaseStyle.Render(PhasePortrait(v.tr, max(10, seriesWidth/2), plotHeight, v.cursor))

	var body string
	if wide {
		body = lipgloss.JoinHorizontal(lipgloss.Top, series, " ", phase)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, series, phase)
	}

	help := helpStyle.Render("tab: switch panel • ←/→: scrub • home/end: jump • q: close")
	return lipgloss.JoinVertical(lipgloss.Left, v.readout(), body, help)
}

func (v *Viewer) readout() string {
	if v.tr.Len() == 0 {
		return labelStyle.Render("no samples")
	}
	x := v.tr.States[v.cursor]
	return fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		labelStyle.Render("t ="), valueStyle.Render(fmt.Sprintf("%.2f", v.tr.Times[v.cursor])),
		labelStyle.Render("Region 1:"), valueStyle.Render(fmt.Sprintf("%.2f", x[0])),
		labelStyle.Render("Region 2:"), valueStyle.Render(fmt.Sprintf("%.2f", x[1])),
		labelStyle.Render("focus:"), valueStyle.Render(v.focus.String()),
	)
}

// RunViewer opens the plot window and blocks until it is closed.
func RunViewer(ctx context.Context, tr *dynamo.Trajectory) error {
	p := tea.NewProgram(NewViewer(tr), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("plot window: %w", err)
	}
	return nil
}
