package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/coopsim/internal/dynamo"
)

const (
	TimeSeriesTitle = "Regional Development Through Cooperation"
	TimeAxisLabel   = "Time (Years)"
	LevelAxisLabel  = "Development Level"

	PhaseTitle      = "Development Phase Space"
	PhaseXAxisLabel = "Region 1 Development"
	PhaseYAxisLabel = "Region 2 Development"
)

const (
	defaultWidth  = 72
	defaultHeight = 14
)

// TimeSeries draws both region levels against time.
func TimeSeries(tr *dynamo.Trajectory, width, height int) string {
	if tr == nil || tr.Len() == 0 {
		return axisStyle.Render("(no data)")
	}
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	r1 := tr.Component(0)
	r2 := tr.Component(1)
	lo, hi := bounds(r1, r2)

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption(fmt.Sprintf("%s: 0 to %.1f", TimeAxisLabel, tr.Times[len(tr.Times)-1])),
	}
	if hi-lo == 0 {
		opts = append(opts, asciigraph.LowerBound(lo-1), asciigraph.UpperBound(hi+1))
	}

	graph := asciigraph.PlotMany([][]float64{r1, r2}, opts...)

	var b strings.Builder
	b.WriteString(titleStyle.Render(TimeSeriesTitle) + "\n")
	b.WriteString(axisStyle.Render(LevelAxisLabel) + "\n")
	b.WriteString(graph + "\n")
	b.WriteString(legend())
	return b.String()
}

// PhasePortrait plots region 2 against region 1 on a Braille canvas of
// width x height cells. A cursor in [0, tr.Len()) is marked with a cross.
func PhasePortrait(tr *dynamo.Trajectory, width, height, cursor int) string {
	if tr == nil || tr.Len() == 0 {
		return axisStyle.Render("(no data)")
	}
	if width <= 0 {
		width = defaultWidth / 2
	}
	if height <= 0 {
		height = defaultHeight
	}

	xs := tr.Component(0)
	ys := tr.Component(1)
	xlo, xhi := bounds(xs)
	ylo, yhi := bounds(ys)

	c := NewCanvas(width, height)
	px := func(v float64) int { return scale(v, xlo, xhi, width*2-1) }
	py := func(v float64) int { return height*4 - 1 - scale(v, ylo, yhi, height*4-1) }

	prevX, prevY := px(xs[0]), py(ys[0])
	c.Set(prevX, prevY)
	for i := 1; i < len(xs); i++ {
		x, y := px(xs[i]), py(ys[i])
		c.DrawLine(prevX, prevY, x, y)
		prevX, prevY = x, y
	}
	if cursor >= 0 && cursor < len(xs) {
		c.DrawCross(px(xs[cursor]), py(ys[cursor]), 2)
	}

	yTop := fmt.Sprintf("%.1f", yhi)
	yBottom := fmt.Sprintf("%.1f", ylo)
	gutter := max(len(yTop), len(yBottom))

	rows := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	plot := lipgloss.NewStyle().Foreground(phaseColor)

	var b strings.Builder
	b.WriteString(titleStyle.Render(PhaseTitle) + "\n")
	b.WriteString(axisStyle.Render(PhaseYAxisLabel) + "\n")
	for i, row := range rows {
		label := ""
		switch i {
		case 0:
			label = yTop
		case len(rows) - 1:
			label = yBottom
		}
		fmt.Fprintf(&b, "%*s ┤%s\n", gutter, label, plot.Render(row))
	}

	xLeft := fmt.Sprintf("%.1f", xlo)
	xRight := fmt.Sprintf("%.1f", xhi)
	pad := max(1, width-len(xLeft)-len(xRight))
	fmt.Fprintf(&b, "%*s  %s%s%s\n", gutter, "", xLeft, strings.Repeat(" ", pad), xRight)
	b.WriteString(axisStyle.Render(strings.Repeat(" ", gutter+2) + PhaseXAxisLabel))
	return b.String()
}

// Render is the non-interactive rendering of a run: the time series above
// the phase portrait, each in its own panel.
func Render(tr *dynamo.Trajectory, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	series := panelStyle.Render(TimeSeries(tr, width, defaultHeight))
	phase := panelStyle.Render(PhasePortrait(tr, width/2, defaultHeight, -1))
	return lipgloss.JoinVertical(lipgloss.Left, series, phase)
}

func bounds(series ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// scale maps v from [lo, hi] onto [0, n]. A degenerate range maps to the
// middle.
func scale(v, lo, hi float64, n int) int {
	if hi-lo == 0 {
		return n / 2
	}
	return int(math.Round((v - lo) / (hi - lo) * float64(n)))
}
