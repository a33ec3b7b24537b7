package infra

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/coolbeans/lebdash/pkg/region"
)

// AggregatedCount is the number of flagged initiatives in a governorate.
type AggregatedCount struct {
	Governorate region.Governorate `json:"governorate"`
	Projects    int                `json:"projects"`
}

// Aggregation is the bar chart input for one population range.
type Aggregation struct {
	Range    region.PopulationRange `json:"range"`
	Selected []region.Governorate   `json:"selected"`
	Counts   []AggregatedCount      `json:"counts"`

	// Categories is the x-axis order; it always mirrors Counts.
	Categories []string `json:"categories"`
}

// Empty reports whether there is nothing to chart.
func (aggregation Aggregation) Empty() bool {
	return len(aggregation.Counts) == 0
}

// Total returns the sum of all counts.
func (aggregation Aggregation) Total() int {
	total := 0
	for _, count := range aggregation.Counts {
		total += count.Projects
	}
	return total
}

// CountByGovernorate keeps rows whose governorate is selected and whose
// initiative flag equals 1, counts them per governorate and orders the result
// ascending by count. Ties keep first-encounter order.
func (infraFrame *Frame) CountByGovernorate(selected []region.Governorate) ([]AggregatedCount, error) {
	if len(selected) == 0 || infraFrame.frame.Nrow() == 0 {
		return []AggregatedCount{}, nil
	}

	selectedNames := make([]string, len(selected))
	for index, governorate := range selected {
		selectedNames[index] = governorate.String()
	}

	inSelection := infraFrame.frame.Filter(dataframe.F{
		Colname:    ColumnGovernorate,
		Comparator: series.In,
		Comparando: selectedNames,
	})
	if inSelection.Err != nil {
		return nil, fmt.Errorf("failed to filter governorates: %w", inSelection.Err)
	}

	flagged, err := filterFlag(inSelection, 1)
	if err != nil {
		return nil, err
	}

	counts := countByGovernorate(flagged)
	sortAscending(counts)
	return counts, nil
}

// Aggregate selects governorates by population and counts their initiatives.
func (pipeline *Pipeline) Aggregate(infraFrame *Frame, populationRange region.PopulationRange) (Aggregation, error) {
	selected := pipeline.tables.Population.Select(populationRange)

	counts, err := infraFrame.CountByGovernorate(selected)
	if err != nil {
		return Aggregation{}, err
	}

	pipeline.logger.Debug("infrastructure aggregated",
		zap.Stringer("range", populationRange),
		zap.Int("governorates", len(selected)),
		zap.Int("bars", len(counts)))

	return Aggregation{
		Range:      populationRange,
		Selected:   selected,
		Counts:     counts,
		Categories: Categories(counts),
	}, nil
}

// Categories returns the chart category order for counts.
func Categories(counts []AggregatedCount) []string {
	categories := make([]string, len(counts))
	for index, count := range counts {
		categories[index] = count.Governorate.String()
	}
	return categories
}
