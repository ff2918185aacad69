package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/tabular"
)

// Loader handles loading article sheets from Excel workbooks
type Loader struct {
	sheet string
}

// NewLoader creates a loader that reads the named worksheet, or the first one when sheet is empty
func NewLoader(sheet string) *Loader {
	return &Loader{sheet: sheet}
}

// LoadSheet loads an article sheet from a workbook file
func (l *Loader) LoadSheet(filename string) (*entities.ArticleSheet, *tabular.ColumnMap, error) {
	workbook, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook %s: %w", filename, err)
	}
	defer workbook.Close()

	return l.parse(workbook)
}

// ReadSheet loads an article sheet from workbook data
func (l *Loader) ReadSheet(r io.Reader) (*entities.ArticleSheet, *tabular.ColumnMap, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	return l.parse(workbook)
}

func (l *Loader) parse(workbook *excelize.File) (*entities.ArticleSheet, *tabular.ColumnMap, error) {
	name, err := l.sheetName(workbook)
	if err != nil {
		return nil, nil, err
	}

	// Raw values keep dates as serial numbers instead of locale-formatted text
	rows, err := workbook.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read worksheet %s: %w", name, err)
	}

	sheet, columns, err := tabular.ParseSheet(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid worksheet %s: %w", name, err)
	}
	return sheet, columns, nil
}

func (l *Loader) sheetName(workbook *excelize.File) (string, error) {
	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no worksheets")
	}
	if l.sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == l.sheet {
			return name, nil
		}
	}
	return "", fmt.Errorf("worksheet %s not found (available: %v)", l.sheet, sheets)
}
