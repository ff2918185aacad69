package sheets

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/tabular"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/xlsx"
)

// Format is a tabular file format
type Format int

const (
	FormatCSV Format = iota
	FormatXLSX
)

// String method for Format enum
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "Unknown"
	}
}

// ContentType is the MIME type of files in the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv", "txt":
		return FormatCSV, nil
	case "xlsx", "xlsm", "excel":
		return FormatXLSX, nil
	default:
		return FormatCSV, fmt.Errorf("invalid format: %s (expected: csv or xlsx)", s)
	}
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatCSV, fmt.Errorf("cannot detect format of %s: no file extension", path)
	}
	return ParseFormat(ext)
}

// Load reads an article sheet from a CSV or Excel file. sheetName selects the
// worksheet of a workbook; empty means the first one.
func Load(path, sheetName string) (*entities.ArticleSheet, *tabular.ColumnMap, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, err
	}

	switch format {
	case FormatXLSX:
		return xlsx.NewLoader(sheetName).LoadSheet(path)
	default:
		return csv.NewLoader().LoadSheet(path)
	}
}

// Read reads an article sheet in the given format
func Read(r io.Reader, format Format, sheetName string) (*entities.ArticleSheet, *tabular.ColumnMap, error) {
	switch format {
	case FormatXLSX:
		return xlsx.NewLoader(sheetName).ReadSheet(r)
	default:
		return csv.NewLoader().ReadSheet(r)
	}
}

// ViewWriter writes plan views in one file format
type ViewWriter interface {
	WriteView(out io.Writer, view dto.View, result *dto.PlanResult) error
	WriteAll(dir string, result *dto.PlanResult) ([]string, error)
}

var (
	_ ViewWriter = (*csv.Writer)(nil)
	_ ViewWriter = (*xlsx.Writer)(nil)
)

// NewWriter returns the view writer for a format
func NewWriter(format Format) ViewWriter {
	if format == FormatXLSX {
		return xlsx.NewWriter()
	}
	return csv.NewWriter()
}

// FileName is the download name of a view in the format
func FileName(view dto.View, format Format, result *dto.PlanResult) string {
	return view.FileName(result.GeneratedAt, format.String())
}
