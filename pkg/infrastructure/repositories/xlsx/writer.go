package xlsx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/tabular"
)

// Extension is the file extension of written views
const Extension = "xlsx"

// defaultSheet is the worksheet every new workbook starts with
const defaultSheet = "Sheet1"

// Writer writes plan views as Excel workbooks, one view per workbook
type Writer struct{}

// NewWriter creates a new workbook writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteView writes one view of the result as a workbook
func (w *Writer) WriteView(out io.Writer, view dto.View, result *dto.PlanResult) error {
	workbook, err := w.build(view, result)
	if err != nil {
		return err
	}
	defer workbook.Close()

	if err := workbook.Write(out); err != nil {
		return fmt.Errorf("failed to write %s workbook: %w", view, err)
	}
	return nil
}

// WriteAll writes every view into dir and returns the written paths in view order
func (w *Writer) WriteAll(dir string, result *dto.PlanResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(dto.AllViews))
	for _, view := range dto.AllViews {
		path := filepath.Join(dir, view.FileName(result.GeneratedAt, Extension))
		workbook, err := w.build(view, result)
		if err != nil {
			return paths, err
		}
		err = workbook.SaveAs(path)
		workbook.Close()
		if err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) build(view dto.View, result *dto.PlanResult) (*excelize.File, error) {
	table, err := tabular.ViewTable(view, result)
	if err != nil {
		return nil, err
	}

	workbook := excelize.NewFile()
	name := view.String()
	if err := workbook.SetSheetName(defaultSheet, name); err != nil {
		workbook.Close()
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := make([]any, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	if err := setRow(workbook, name, 1, header); err != nil {
		workbook.Close()
		return nil, err
	}

	for i, row := range table.Rows {
		if err := setRow(workbook, name, i+2, cellValues(row)); err != nil {
			workbook.Close()
			return nil, err
		}
	}

	return workbook, nil
}

func setRow(workbook *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := workbook.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// cellValues converts decimals to numbers the workbook can store
func cellValues(row []any) []any {
	values := make([]any, len(row))
	for i, cell := range row {
		if d, ok := cell.(decimal.Decimal); ok {
			values[i] = d.InexactFloat64()
			continue
		}
		values[i] = cell
	}
	return values
}
