package csv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/tabular"
)

// Loader handles loading article sheets from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadSheet loads an article sheet from a CSV file
func (l *Loader) LoadSheet(filename string) (*entities.ArticleSheet, *tabular.ColumnMap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open articles file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadSheet(file)
}

// ReadSheet reads an article sheet from CSV data. Comma and semicolon separated
// files are both accepted; the separator is taken from the header line.
func (l *Loader) ReadSheet(r io.Reader) (*entities.ArticleSheet, *tabular.ColumnMap, error) {
	buffered := bufio.NewReader(r)
	headerLine, err := buffered.Peek(buffered.Size())
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, fmt.Errorf("failed to read articles CSV: %w", err)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = sniffDelimiter(headerLine)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read articles CSV: %w", err)
	}

	sheet, columns, err := tabular.ParseSheet(records)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid articles CSV: %w", err)
	}
	return sheet, columns, nil
}

// sniffDelimiter picks ';' when the first line has more semicolons than commas
func sniffDelimiter(data []byte) rune {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	if bytes.Count(data, []byte{';'}) > bytes.Count(data, []byte{','}) {
		return ';'
	}
	return ','
}
