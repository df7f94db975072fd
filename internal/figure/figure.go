// Package figure renders a finished run as a static image: the time series
// of both regions stacked above the phase portrait.
package figure

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/coopsim/internal/dynamo"
	"github.com/san-kum/coopsim/internal/viz"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	Width       = 900
	PanelHeight = 450
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

var (
	ErrUnsupportedFormat = errors.New("figure: unsupported format")
	ErrEmptyTrajectory   = errors.New("figure: empty trajectory")
)

// FormatFromPath picks the output format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".svg":
		return SVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Write renders tr to path, choosing PNG or SVG from the extension.
func Write(path string, tr *dynamo.Trajectory) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Render(&buf, format, tr); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	return nil
}

// Render draws both panels into w.
func Render(w io.Writer, format Format, tr *dynamo.Trajectory) error {
	if tr == nil || tr.Len() == 0 {
		return ErrEmptyTrajectory
	}

	panels := []chart.Chart{timeSeriesChart(tr), phaseChart(tr)}

	switch format {
	case PNG:
		return renderPNG(w, panels)
	case SVG:
		return renderSVG(w, panels)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func timeSeriesChart(tr *dynamo.Trajectory) chart.Chart {
	r1 := tr.Component(0)
	r2 := tr.Component(1)

	graph := chart.Chart{
		Title:  viz.TimeSeriesTitle,
		Width:  Width,
		Height: PanelHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  viz.TimeAxisLabel,
			Style: chart.Style{FontSize: 10.0},
			Range: axisRange(tr.Times),
		},
		YAxis: chart.YAxis{
			Name:  viz.LevelAxisLabel,
			Style: chart.Style{FontSize: 10.0},
			Range: axisRange(r1, r2),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Region 1",
				XValues: tr.Times,
				YValues: r1,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "Region 2",
				XValues: tr.Times,
				YValues: r2,
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

func phaseChart(tr *dynamo.Trajectory) chart.Chart {
	r1 := tr.Component(0)
	r2 := tr.Component(1)

	return chart.Chart{
		Title:  viz.PhaseTitle,
		Width:  Width,
		Height: PanelHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  viz.PhaseXAxisLabel,
			Style: chart.Style{FontSize: 10.0},
			Range: axisRange(r1),
		},
		YAxis: chart.YAxis{
			Name:  viz.PhaseYAxisLabel,
			Style: chart.Style{FontSize: 10.0},
			Range: axisRange(r2),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: r1,
				YValues: r2,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2.0},
			},
		},
	}
}

// axisRange spans all values, widened by one unit on each side when the
// data is flat so the chart never sees a zero-width range.
func axisRange(series ...[]float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo == 0 {
		lo, hi = lo-1, hi+1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func renderPNG(w io.Writer, panels []chart.Chart) error {
	out := image.NewRGBA(image.Rect(0, 0, Width, PanelHeight*len(panels)))

	for i, graph := range panels {
		var buf bytes.Buffer
		if err := graph.Render(chart.PNG, &buf); err != nil {
			return fmt.Errorf("render %q: %w", graph.Title, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return fmt.Errorf("decode %q: %w", graph.Title, err)
		}
		offset := image.Pt(0, i*PanelHeight)
		draw.Draw(out, img.Bounds().Add(offset), img, img.Bounds().Min, draw.Src)
	}

	return png.Encode(w, out)
}

func renderSVG(w io.Writer, panels []chart.Chart) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, Width, PanelHeight*len(panels), Width, PanelHeight*len(panels)))

	for i, graph := range panels {
		var buf bytes.Buffer
		if err := graph.Render(chart.SVG, &buf); err != nil {
			return fmt.Errorf("render %q: %w", graph.Title, err)
		}
		body := buf.String()
		if idx := strings.Index(body, "<svg"); idx > 0 {
			body = body[idx:]
		}
		sb.WriteString(fmt.Sprintf("<g transform=\"translate(0,%d)\">\n", i*PanelHeight))
		sb.WriteString(body)
		sb.WriteString("\n</g>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
