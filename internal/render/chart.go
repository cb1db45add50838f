// Package render draws a prediction as a two-bar PNG chart.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"hdp-service/internal/pipeline"
)

// BarColor is the fill of both bars.
const BarColor = "65aabb"

// ChartRenderer renders predictions at a fixed size.
type ChartRenderer struct {
	Width  int
	Height int
}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{Width: 640, Height: 480}
}

// Render returns the PNG bytes of the chart for p.
func (r *ChartRenderer) Render(p pipeline.Prediction) ([]byte, error) {
	disease, noDisease := p.DiseasePercent(), p.NoDiseasePercent()
	barStyle := chart.Style{
		FillColor:   drawing.ColorFromHex(BarColor),
		StrokeColor: drawing.ColorFromHex(BarColor),
		StrokeWidth: 1,
	}

	graph := chart.BarChart{
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   120,
		BarSpacing: 100,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		YAxis: chart.YAxis{
			Name:  "Probability (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: []chart.Value{
			{Value: disease, Label: fmt.Sprintf("Heart disease (%.2f%%)", disease), Style: barStyle},
			{Value: noDisease, Label: fmt.Sprintf("No heart disease (%.2f%%)", noDisease), Style: barStyle},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render prediction chart: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI embeds PNG bytes for inline display.
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
