// internal/store/excel.go
package store

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/SolarArchiver/internal/catalog"
)

// ExcelOptions configures the Excel catalog export.
type ExcelOptions struct {
	FilePath   string
	SheetName  string
	AutoFilter bool
	FreezePane bool
}

// ExcelWriter exports the catalog to an .xlsx workbook for manual review.
type ExcelWriter struct {
	file   *excelize.File
	config ExcelOptions
}

// NewExcelWriter creates the Excel export writer.
func NewExcelWriter(options ExcelOptions) (*ExcelWriter, error) {
	if options.FilePath == "" {
		return nil, fmt.Errorf("Excel file path is required")
	}
	if options.SheetName == "" {
		options.SheetName = "Observations"
	}
	return &ExcelWriter{file: excelize.NewFile(), config: options}, nil
}

// Write renders the catalog to the configured sheet and saves the workbook.
func (w *ExcelWriter) Write(sessions []catalog.Session) error {
	sheet := w.config.SheetName
	index, err := w.file.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	w.file.SetActiveSheet(index)

	header := append([]string{"obs_id"}, Columns...)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := w.file.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, s := range sessions {
		row := append([]string{fmt.Sprintf("%d", i)}, flatten(s)...)
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := w.file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	}

	if w.config.AutoFilter && len(sessions) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), len(sessions)+1)
		if err == nil {
			_ = w.file.AutoFilter(sheet, "A1:"+last, nil)
		}
	}
	if w.config.FreezePane {
		_ = w.file.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}

	if sheet != "Sheet1" {
		_ = w.file.DeleteSheet("Sheet1")
	}
	return w.file.SaveAs(w.config.FilePath)
}

// Close releases the workbook resources.
func (w *ExcelWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
