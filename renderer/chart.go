package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/etnz/returns"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// CumulativeChart writes a PNG line chart of the cumulative returns of rows: portfolio,
// ex-cash, blended benchmark and 100% benchmark.
func CumulativeChart(rows []returns.Row, w io.Writer) error {
	if len(rows) < 2 {
		return fmt.Errorf("need at least 2 rows, got %d", len(rows))
	}

	cumulative := returns.Cumulative(rows)
	xValues := make([]time.Time, len(cumulative))
	port := make([]float64, len(cumulative))
	exCash := make([]float64, len(cumulative))
	blended := make([]float64, len(cumulative))
	spy := make([]float64, len(cumulative))
	for i, r := range cumulative {
		xValues[i] = r.Date.Time()
		port[i] = 100 * r.Port
		exCash[i] = 100 * r.ExCash
		blended[i] = 100 * r.BenchBlended
		spy[i] = 100 * r.Spy100
	}

	series := func(name, color string, width float64, dashed bool, y []float64) chart.TimeSeries {
		s := chart.TimeSeries{
			Name:    name,
			Style:   chart.Style{StrokeColor: drawing.ColorFromHex(color), StrokeWidth: width},
			XValues: xValues,
			YValues: y,
		}
		if dashed {
			s.Style.StrokeDashArray = []float64{5.0, 3.0}
		}
		return s
	}

	graph := chart.Chart{
		Title:  "Cumulative Return",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%+.1f%%", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			series("Portfolio", "2563eb", 2.5, false, port),
			series("Ex-Cash", "16a34a", 1.5, false, exCash),
			series("Blended Benchmark", "9ca3af", 1.5, true, blended),
			series("100% Benchmark", "dc2626", 1.5, true, spy),
		},
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
