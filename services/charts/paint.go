package charts

import (
	"bytes"
	"errors"
	"fmt"

	"student_dashboard_go/models"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a dataset has nothing to draw
var ErrNoData = errors.New("dataset has nothing to draw")

// Painter draws a dataset as an image
type Painter interface {
	Paint(kind models.ChartKind, ds Dataset) ([]byte, error)
}

var (
	lineColor  = drawing.ColorFromHex("007AFF")
	barColor   = drawing.ColorFromHex("007AFF").WithAlpha(204)
	gradeColor = []drawing.Color{
		drawing.ColorFromHex("34C759"), // A
		drawing.ColorFromHex("007AFF"), // B
		drawing.ColorFromHex("FF9500"), // C
		drawing.ColorFromHex("FF3B30"), // D
		drawing.ColorFromHex("8E8E93"), // F
	}
)

// GoChartPainter paints PNG images with go-chart
type GoChartPainter struct {
	Width  int
	Height int
}

func NewGoChartPainter() *GoChartPainter {
	return &GoChartPainter{Width: 640, Height: 320}
}

// Paint implements Painter
func (p *GoChartPainter) Paint(kind models.ChartKind, ds Dataset) ([]byte, error) {
	if ds.Len() == 0 {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	var err error
	switch kind {
	case models.ChartKindLine:
		err = p.line(ds).Render(chart.PNG, &buf)
	case models.ChartKindDoughnut:
		var donut chart.DonutChart
		donut, err = p.doughnut(ds)
		if err == nil {
			err = donut.Render(chart.PNG, &buf)
		}
	case models.ChartKindBar:
		err = p.bar(ds).Render(chart.PNG, &buf)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to paint %s chart: %w", kind, err)
	}
	return buf.Bytes(), nil
}

func (p *GoChartPainter) line(ds Dataset) chart.Chart {
	xs := make([]float64, ds.Len())
	ticks := make([]chart.Tick, ds.Len())
	for i, label := range ds.Labels {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	maxX := float64(ds.Len() - 1)
	if maxX < 1 {
		maxX = 1
	}

	return chart.Chart{
		Width:      p.Width,
		Height:     p.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Ticks: ticks, Range: &chart.ContinuousRange{Min: 0, Max: maxX}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: valueAxisMax(ds)}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    ds.Label,
				XValues: xs,
				YValues: ds.Values,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 3,
					FillColor:   lineColor.WithAlpha(25),
				},
			},
		},
	}
}

func (p *GoChartPainter) doughnut(ds Dataset) (chart.DonutChart, error) {
	var values []chart.Value
	for i, v := range ds.Values {
		// zero slices keep their category in the dataset but are not drawn
		if v <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: ds.Labels[i],
			Value: v,
			Style: chart.Style{FillColor: gradeColor[i%len(gradeColor)]},
		})
	}
	if len(values) == 0 {
		return chart.DonutChart{}, ErrNoData
	}

	return chart.DonutChart{
		Width:  p.Height,
		Height: p.Height,
		Values: values,
	}, nil
}

func (p *GoChartPainter) bar(ds Dataset) chart.BarChart {
	bars := make([]chart.Value, ds.Len())
	for i, v := range ds.Values {
		bars[i] = chart.Value{Label: ds.Labels[i], Value: v, Style: chart.Style{FillColor: barColor, StrokeColor: barColor}}
	}

	barWidth := (p.Width - 100) / (2 * ds.Len())
	if barWidth < 8 {
		barWidth = 8
	}

	return chart.BarChart{
		Width:      p.Width,
		Height:     p.Height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 20}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: valueAxisMax(ds)}},
		Bars:       bars,
	}
}

// valueAxisMax keeps a non-empty value range even when every value is zero
func valueAxisMax(ds Dataset) float64 {
	if ds.Max > 0 {
		return ds.Max
	}
	highest := 0.0
	for _, v := range ds.Values {
		if v > highest {
			highest = v
		}
	}
	if highest <= 0 {
		return 1
	}
	return highest * 1.1
}
