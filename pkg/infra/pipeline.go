// Package infra implements the infrastructure-initiatives pipeline: governorate
// derivation, population-filtered project counts and the zero-initiative
// district map.
package infra

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/coolbeans/lebdash/pkg/dataset"
	"github.com/coolbeans/lebdash/pkg/region"
)

// Derived column names added by Prepare.
const (
	ColumnArea        = "Area"
	ColumnGovernorate = "Governorate"
)

// DefaultMapZoom is the fixed zoom level of the zero-initiative map.
const DefaultMapZoom = 7

// Pipeline turns raw initiative records into chart and map data.
type Pipeline struct {
	tables region.Tables
	logger *zap.Logger
}

// NewPipeline creates a pipeline over the given lookup tables.
func NewPipeline(tables region.Tables, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{tables: tables, logger: logger}
}

// Frame is an initiative data frame with Area and Governorate derived.
type Frame struct {
	frame    dataframe.DataFrame
	unmapped []string
}

// Load parses a CSV document and prepares it.
func (pipeline *Pipeline) Load(reader io.Reader) (*Frame, error) {
	frame, err := dataset.Load(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to load infrastructure dataset: %w", err)
	}
	return pipeline.Prepare(frame)
}

// Prepare derives the Area and Governorate columns and coerces the initiative
// flag to a number. Area identifiers missing from the district table are
// classified as region.GovernorateUnknown and listed by Unmapped.
func (pipeline *Pipeline) Prepare(frame dataframe.DataFrame) (*Frame, error) {
	if err := dataset.RequireColumns(frame, dataset.ColumnRefArea, dataset.ColumnInitiativeFlag); err != nil {
		return nil, fmt.Errorf("infrastructure dataset: %w", err)
	}

	frame = dataset.Numeric(frame, dataset.ColumnInitiativeFlag)

	refAreas := dataset.Strings(frame, dataset.ColumnRefArea)
	areas := make([]string, len(refAreas))
	governorates := make([]string, len(refAreas))
	unmappedSeen := make(map[string]bool)
	var unmapped []string

	for rowIndex, refArea := range refAreas {
		area, governorate := pipeline.tables.Normalizer.NormalizeRefArea(refArea)
		areas[rowIndex] = area
		governorates[rowIndex] = governorate.String()

		if governorate == region.GovernorateUnknown && !unmappedSeen[area] {
			unmappedSeen[area] = true
			unmapped = append(unmapped, area)
		}
	}

	frame = frame.Mutate(series.New(areas, series.String, ColumnArea))
	frame = frame.Mutate(series.New(governorates, series.String, ColumnGovernorate))
	if frame.Err != nil {
		return nil, fmt.Errorf("failed to derive governorates: %w", frame.Err)
	}

	if len(unmapped) > 0 {
		pipeline.logger.Debug("area identifiers without a governorate",
			zap.Int("count", len(unmapped)),
			zap.Strings("areas", unmapped))
	}

	return &Frame{frame: frame, unmapped: unmapped}, nil
}

// Rows returns the number of records in the frame.
func (infraFrame *Frame) Rows() int {
	return infraFrame.frame.Nrow()
}

// Unmapped returns the distinct area identifiers that resolved to
// region.GovernorateUnknown, in encounter order. "" stands for refArea values
// that matched neither URI form.
func (infraFrame *Frame) Unmapped() []string {
	return append([]string(nil), infraFrame.unmapped...)
}

// DataFrame exposes the prepared frame for export.
func (infraFrame *Frame) DataFrame() dataframe.DataFrame {
	return infraFrame.frame
}

// filterFlag keeps the rows whose initiative flag equals value.
func filterFlag(frame dataframe.DataFrame, value float64) (dataframe.DataFrame, error) {
	if frame.Nrow() == 0 {
		return frame, nil
	}
	filtered := frame.Filter(dataframe.F{
		Colname:    dataset.ColumnInitiativeFlag,
		Comparator: series.Eq,
		Comparando: value,
	})
	if filtered.Err != nil {
		return filtered, fmt.Errorf("failed to filter initiative flag: %w", filtered.Err)
	}
	return filtered, nil
}

// countByGovernorate counts the governorate column of frame, keeping
// first-encounter order.
func countByGovernorate(frame dataframe.DataFrame) []AggregatedCount {
	counts := make([]AggregatedCount, 0)
	if frame.Nrow() == 0 {
		return counts
	}

	positions := make(map[string]int)
	for _, governorate := range dataset.Strings(frame, ColumnGovernorate) {
		position, seen := positions[governorate]
		if !seen {
			position = len(counts)
			positions[governorate] = position
			counts = append(counts, AggregatedCount{Governorate: region.Governorate(governorate)})
		}
		counts[position].Projects++
	}
	return counts
}

// sortAscending orders counts by project count; ties keep their order.
func sortAscending(counts []AggregatedCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Projects < counts[j].Projects
	})
}
