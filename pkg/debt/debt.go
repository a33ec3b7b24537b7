// Package debt turns raw external-debt observations into an averaged,
// period-ordered time series expressed in billions.
package debt

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/coolbeans/lebdash/pkg/dataset"
)

const (
	// OutlierThreshold is the exclusive lower bound on observation values.
	// Smaller values are placeholders in the published data.
	OutlierThreshold = 1000.0

	// BillionDivisor converts base units to billions.
	BillionDivisor = 1e9
)

// Point is one averaged period of the debt series.
type Point struct {
	Period       string  `json:"period"`
	Value        float64 `json:"value"`
	ValueBillion float64 `json:"value_billion"`
}

// Series is the ordered debt time series plus the row counts behind it.
type Series struct {
	Points []Point `json:"points"`
	Rows   int     `json:"rows"`
	Kept   int     `json:"kept"`
}

// Periods returns the period labels in series order.
func (debtSeries Series) Periods() []string {
	periods := make([]string, len(debtSeries.Points))
	for index, point := range debtSeries.Points {
		periods[index] = point.Period
	}
	return periods
}

// Billions returns the converted values in series order.
func (debtSeries Series) Billions() []float64 {
	values := make([]float64, len(debtSeries.Points))
	for index, point := range debtSeries.Points {
		values[index] = point.ValueBillion
	}
	return values
}

// Pipeline aggregates debt observations.
type Pipeline struct {
	logger *zap.Logger
}

// NewPipeline creates a debt pipeline.
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// Load parses a CSV document and aggregates it.
func (pipeline *Pipeline) Load(reader io.Reader) (Series, error) {
	frame, err := dataset.Load(reader)
	if err != nil {
		return Series{}, fmt.Errorf("failed to load debt dataset: %w", err)
	}
	return pipeline.Aggregate(frame)
}

// Aggregate keeps observations above OutlierThreshold, averages them per
// refPeriod, orders the periods ascending and converts each mean to billions.
func (pipeline *Pipeline) Aggregate(frame dataframe.DataFrame) (Series, error) {
	if err := dataset.RequireColumns(frame, dataset.ColumnRefPeriod, dataset.ColumnValue); err != nil {
		return Series{}, fmt.Errorf("debt dataset: %w", err)
	}

	debtSeries := Series{Points: make([]Point, 0), Rows: frame.Nrow()}
	if frame.Nrow() == 0 {
		return debtSeries, nil
	}

	frame = dataset.Numeric(frame, dataset.ColumnValue)
	kept := frame.Filter(dataframe.F{
		Colname:    dataset.ColumnValue,
		Comparator: series.Greater,
		Comparando: OutlierThreshold,
	})
	if kept.Err != nil {
		return Series{}, fmt.Errorf("failed to filter debt values: %w", kept.Err)
	}
	debtSeries.Kept = kept.Nrow()
	if kept.Nrow() == 0 {
		return debtSeries, nil
	}

	kept = normalizePeriods(kept)
	if kept.Err != nil {
		return Series{}, fmt.Errorf("failed to normalize debt periods: %w", kept.Err)
	}

	groups := kept.GroupBy(dataset.ColumnRefPeriod)
	if groups.Err != nil {
		return Series{}, fmt.Errorf("failed to group debt periods: %w", groups.Err)
	}

	for _, group := range groups.GetGroups() {
		if group.Nrow() == 0 {
			continue
		}
		mean := group.Col(dataset.ColumnValue).Mean()
		debtSeries.Points = append(debtSeries.Points, Point{
			Period: group.Col(dataset.ColumnRefPeriod).Records()[0],
			Value:  mean,
		})
	}

	sort.SliceStable(debtSeries.Points, func(i, j int) bool {
		return periodLess(debtSeries.Points[i].Period, debtSeries.Points[j].Period)
	})
	for index := range debtSeries.Points {
		debtSeries.Points[index].ValueBillion = debtSeries.Points[index].Value / BillionDivisor
	}

	pipeline.logger.Debug("debt series aggregated",
		zap.Int("rows", debtSeries.Rows),
		zap.Int("kept", debtSeries.Kept),
		zap.Int("periods", len(debtSeries.Points)))

	return debtSeries, nil
}

// normalizePeriods rewrites refPeriod as period labels so that "2020",
// " 2020" and "2020.0" fall into one group.
func normalizePeriods(frame dataframe.DataFrame) dataframe.DataFrame {
	rawPeriods := dataset.Strings(frame, dataset.ColumnRefPeriod)
	labels := make([]string, len(rawPeriods))
	for index, rawPeriod := range rawPeriods {
		labels[index] = periodLabel(rawPeriod)
	}
	return frame.Mutate(series.New(labels, series.String, dataset.ColumnRefPeriod))
}

// periodLabel renders numeric periods without a fractional part ("2020",
// not "2020.000000"). Other labels are trimmed and kept as they are.
func periodLabel(raw string) string {
	label := strings.TrimSpace(raw)
	if number, err := strconv.ParseFloat(label, 64); err == nil {
		return strconv.FormatFloat(number, 'f', -1, 64)
	}
	return label
}

// periodLess orders numerically when both labels are numbers, else
// lexically.
func periodLess(left, right string) bool {
	leftNumber, leftErr := strconv.ParseFloat(left, 64)
	rightNumber, rightErr := strconv.ParseFloat(right, 64)
	if leftErr == nil && rightErr == nil {
		return leftNumber < rightNumber
	}
	return left < right
}
