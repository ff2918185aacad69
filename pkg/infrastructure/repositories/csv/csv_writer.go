package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/tabular"
)

// Extension is the file extension of written views
const Extension = "csv"

// Writer writes plan views as CSV
type Writer struct {
	comma rune
}

// NewWriter creates a CSV writer using comma separators
func NewWriter() *Writer {
	return &Writer{comma: ','}
}

// WriteView writes one view of the result
func (w *Writer) WriteView(out io.Writer, view dto.View, result *dto.PlanResult) error {
	table, err := tabular.ViewTable(view, result)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(out)
	writer.Comma = w.comma
	if err := writer.WriteAll(table.StringRows()); err != nil {
		return fmt.Errorf("failed to write %s CSV: %w", view, err)
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
		if err := w.writeFile(path, view, result); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeFile(path string, view dto.View, result *dto.PlanResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := w.WriteView(file, view, result); err != nil {
		return err
	}
	return file.Close()
}
