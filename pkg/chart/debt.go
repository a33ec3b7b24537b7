package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/coolbeans/lebdash/pkg/debt"
)

// DebtLine draws points as a dashed black line with circle markers over a
// light grey background. Pass a reveal step's prefix to draw that step.
func DebtLine(points []debt.Point) (*plot.Plot, error) {
	chartPlot := newPlot(DebtTitle, DebtXLabel, DebtYLabel)
	chartPlot.BackgroundColor = debtBackground
	chartPlot.Add(plotter.NewGrid())

	if len(points) == 0 {
		chartPlot.Y.Min = 0
		chartPlot.Y.Max = emptyAxisMax
		return chartPlot, nil
	}

	xys := make(plotter.XYs, len(points))
	periods := make([]string, len(points))
	for index, point := range points {
		xys[index].X = float64(index)
		xys[index].Y = point.ValueBillion
		periods[index] = point.Period
	}

	line, markers, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build debt line: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(1.5)
	line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Color = lineColor
	markers.GlyphStyle.Radius = vg.Points(3)

	chartPlot.Add(line, markers)
	chartPlot.NominalX(periods...)

	return chartPlot, nil
}
