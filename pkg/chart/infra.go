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

// InfrastructureBar draws one bar per aggregated count, in the aggregation's
// category order. An empty aggregation yields an empty, labelled chart.
func InfrastructureBar(aggregation infra.Aggregation) (*plot.Plot, error) {
	chartPlot := newPlot(InfrastructureTitle, InfrastructureXLabel, InfrastructureYLabel)
	chartPlot.Add(plotter.NewGrid())
	chartPlot.Y.Min = 0

	if aggregation.Empty() {
		chartPlot.Y.Max = emptyAxisMax
		return chartPlot, nil
	}

	values := make(plotter.Values, len(aggregation.Counts))
	maxProjects := 0
	for index, count := range aggregation.Counts {
		values[index] = float64(count.Projects)
		if count.Projects > maxProjects {
			maxProjects = count.Projects
		}
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	chartPlot.Add(bars)

	chartPlot.NominalX(aggregation.Categories...)
	chartPlot.X.Tick.Label.Rotation = math.Pi / 6
	chartPlot.X.Tick.Label.XAlign = draw.XRight
	chartPlot.Y.Max = float64(maxProjects) * 1.1

	return chartPlot, nil
}
