// Package charts renders forecast results as PNG images.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/lapazlabs/centavo/internal/model"
)

// RenderForecast draws the daily forecast with its confidence band and
// returns the PNG bytes.
func RenderForecast(points []model.ForecastPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no forecast points to render")
	}

	xValues := make([]float64, len(points))
	predicted := make([]float64, len(points))
	lower := make([]float64, len(points))
	upper := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = float64(i + 1)
		predicted[i] = p.PredictedAmount
		lower[i] = p.LowerBound
		upper[i] = p.UpperBound
	}

	graph := chart.Chart{
		Title:  "Expense forecast",
		Width:  900,
		Height: 450,
		XAxis: chart.XAxis{
			Name: "Days ahead",
		},
		YAxis: chart.YAxis{
			Name: "Amount",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Upper bound",
				XValues: xValues,
				YValues: upper,
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9cc3e5"),
					StrokeDashArray: []float64{4, 4},
				},
			},
			chart.ContinuousSeries{
				Name:    "Predicted",
				XValues: xValues,
				YValues: predicted,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("1f77b4"),
					StrokeWidth: 2,
				},
			},
			chart.ContinuousSeries{
				Name:    "Lower bound",
				XValues: xValues,
				YValues: lower,
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9cc3e5"),
					StrokeDashArray: []float64{4, 4},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render forecast chart: %w", err)
	}
	return buf.Bytes(), nil
}
