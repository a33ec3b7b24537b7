// Package dataset loads CSV documents into gota data frames with the
// header clean-up both dashboard pipelines rely on.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Columns referenced by name after trimming. Note the double space in the
// initiative flag header; it is part of the published column name.
const (
	ColumnRefArea        = "refArea"
	ColumnInitiativeFlag = "Existence of initiatives and projects  in the past five years to improve infrastructure - exists"
	ColumnRefPeriod      = "refPeriod"
	ColumnValue          = "Value"
)

// MissingColumnError reports a required column that is absent from a frame.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (missingColumnError *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q (have %s)", missingColumnError.Column, strings.Join(missingColumnError.Available, ", "))
}

// Load parses a CSV document with a header row into a data frame and trims
// whitespace (and a leading byte-order mark) from every column name. A
// document with a header and no data rows yields an empty frame with those
// columns.
func Load(reader io.Reader) (dataframe.DataFrame, error) {
	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse CSV: no header row")
	}

	var frame dataframe.DataFrame
	if len(records) == 1 {
		frame = emptyFrame(records[0])
	} else {
		frame = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(true),
		)
	}
	if frame.Err != nil {
		return frame, fmt.Errorf("failed to parse CSV: %w", frame.Err)
	}

	for _, columnName := range frame.Names() {
		trimmedName := trimColumnName(columnName)
		if trimmedName == columnName {
			continue
		}
		frame = frame.Rename(trimmedName, columnName)
		if frame.Err != nil {
			return frame, fmt.Errorf("failed to rename column %q: %w", columnName, frame.Err)
		}
	}

	return frame, nil
}

// emptyFrame builds a zero-row frame with one string column per header name.
func emptyFrame(header []string) dataframe.DataFrame {
	columns := make([]series.Series, len(header))
	for index, columnName := range header {
		columns[index] = series.New([]string{}, series.String, columnName)
	}
	return dataframe.New(columns...)
}

func trimColumnName(columnName string) string {
	return strings.TrimSpace(strings.TrimPrefix(columnName, "\ufeff"))
}

// RequireColumns returns a *MissingColumnError for the first absent column.
func RequireColumns(frame dataframe.DataFrame, columnNames ...string) error {
	available := frame.Names()
	for _, columnName := range columnNames {
		if !containsString(available, columnName) {
			return &MissingColumnError{Column: columnName, Available: available}
		}
	}
	return nil
}

// Numeric replaces a column with its float interpretation. Cells that do not
// parse as numbers become NaN, which fails every comparison downstream.
func Numeric(frame dataframe.DataFrame, columnName string) dataframe.DataFrame {
	values := frame.Col(columnName).Float()
	return frame.Mutate(series.New(values, series.Float, columnName))
}

// Strings returns a column's cells as strings.
func Strings(frame dataframe.DataFrame, columnName string) []string {
	return frame.Col(columnName).Records()
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
