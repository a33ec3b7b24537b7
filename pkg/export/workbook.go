// Package export writes dashboard results to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/coolbeans/lebdash/pkg/debt"
	"github.com/coolbeans/lebdash/pkg/infra"
)

// Sheet names, in workbook order.
const (
	SheetInfrastructure = "Infrastructure"
	SheetZeroInitiative = "ZeroInitiative"
	SheetDebt           = "Debt"
)

// Workbook is the content of an export. Nil sections produce a sheet with
// headers only.
type Workbook struct {
	Aggregation *infra.Aggregation
	ZeroMap     *infra.ZeroInitiativeMap
	Debt        *debt.Series
}

// Write encodes the workbook as xlsx.
func (workbook Workbook) Write(writer io.Writer) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", SheetInfrastructure); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, sheet := range []string{SheetZeroInitiative, SheetDebt} {
		if _, err := file.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
	}

	if err := workbook.writeInfrastructure(file); err != nil {
		return err
	}
	if err := workbook.writeZeroInitiative(file); err != nil {
		return err
	}
	if err := workbook.writeDebt(file); err != nil {
		return err
	}

	if err := file.Write(writer); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

func (workbook Workbook) writeInfrastructure(file *excelize.File) error {
	var rows [][]interface{}
	if workbook.Aggregation != nil {
		for _, count := range workbook.Aggregation.Counts {
			rows = append(rows, []interface{}{count.Governorate.String(), count.Projects})
		}
	}
	return writeTable(file, SheetInfrastructure, []string{"Governorate", "Projects"}, rows)
}

func (workbook Workbook) writeZeroInitiative(file *excelize.File) error {
	var rows [][]interface{}
	if workbook.ZeroMap != nil {
		for _, point := range workbook.ZeroMap.Points {
			rows = append(rows, []interface{}{point.District, point.Latitude, point.Longitude, "yes"})
		}
		for _, district := range workbook.ZeroMap.Unplotted {
			rows = append(rows, []interface{}{district, "", "", "no"})
		}
	}
	return writeTable(file, SheetZeroInitiative, []string{"District", "Latitude", "Longitude", "Plotted"}, rows)
}

func (workbook Workbook) writeDebt(file *excelize.File) error {
	var rows [][]interface{}
	if workbook.Debt != nil {
		for _, point := range workbook.Debt.Points {
			rows = append(rows, []interface{}{point.Period, point.Value, point.ValueBillion})
		}
	}
	return writeTable(file, SheetDebt, []string{"Period", "Value", "Value (billion)"}, rows)
}

func writeTable(file *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	for columnIndex, header := range headers {
		cell, err := excelize.CoordinatesToCellName(columnIndex+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
		column, err := excelize.ColumnNumberToName(columnIndex + 1)
		if err != nil {
			return fmt.Errorf("failed to address header column: %w", err)
		}
		if err := file.SetColWidth(sheet, column, column, 18); err != nil {
			return fmt.Errorf("failed to size %s column: %w", sheet, err)
		}
	}

	for rowIndex, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return fmt.Errorf("failed to address row cell: %w", err)
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, rowIndex+1, err)
		}
	}
	return nil
}
