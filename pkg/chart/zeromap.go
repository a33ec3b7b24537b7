package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/coolbeans/lebdash/pkg/infra"
)

// ZoomSpan returns the width in degrees of a 256px web-map tile at zoom.
func ZoomSpan(zoom int) float64 {
	if zoom < 0 {
		zoom = 0
	}
	return 360 / math.Pow(2, float64(zoom))
}

// ZeroInitiativeMap scatters the plotted districts by longitude and latitude.
// The viewport is centred on zeroMap.Center and sized by zeroMap.Zoom.
func ZeroInitiativeMap(zeroMap infra.ZeroInitiativeMap) (*plot.Plot, error) {
	chartPlot := newPlot(MapTitle, MapXLabel, MapYLabel)
	chartPlot.Add(plotter.NewGrid())

	halfSpan := ZoomSpan(zeroMap.Zoom) / 2
	chartPlot.X.Min = zeroMap.Center.Longitude - halfSpan
	chartPlot.X.Max = zeroMap.Center.Longitude + halfSpan
	chartPlot.Y.Min = zeroMap.Center.Latitude - halfSpan
	chartPlot.Y.Max = zeroMap.Center.Latitude + halfSpan

	if len(zeroMap.Points) == 0 {
		return chartPlot, nil
	}

	xys := make(plotter.XYs, len(zeroMap.Points))
	labels := make([]string, len(zeroMap.Points))
	for index, point := range zeroMap.Points {
		xys[index].X = point.Longitude
		xys[index].Y = point.Latitude
		labels[index] = point.District
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build district markers: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Color = markerColor
	scatter.GlyphStyle.Radius = vg.Points(5)

	districtLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("failed to build district labels: %w", err)
	}
	for index := range districtLabels.TextStyle {
		districtLabels.TextStyle[index].Font.Size = vg.Points(8)
	}

	chartPlot.Add(scatter, districtLabels)
	return chartPlot, nil
}
