package tabular

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// dateLayouts are tried in order for last-sale dates
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04",
	"02-01-2006",
	"2/1/2006",
}

// excelEpoch is day zero of the spreadsheet date serial system
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const maxExcelSerial = 2958465 // 9999-12-31

// packPlaces bounds the precision pack sizes are compared at
const packPlaces = 6

// ParseSheet converts raw rows (header first) into an article sheet. When required
// columns are missing the sheet carries the columns found and no records, so the
// planner can report every missing field at once.
func ParseSheet(rows [][]string) (*entities.ArticleSheet, *ColumnMap, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet is empty: expected a header row")
	}

	columns := ResolveColumns(rows[0])
	sheet := &entities.ArticleSheet{
		Columns: columns.Fields(),
		Records: make([]*entities.ArticleRecord, 0, len(rows)-1),
	}
	if len(sheet.MissingFields()) > 0 {
		return sheet, columns, nil
	}

	for i, record := range rows[1:] {
		if isBlank(record) {
			continue
		}
		row := i + 2

		article, err := parseArticle(row, record, columns)
		if err != nil {
			return nil, columns, fmt.Errorf("row %d: %w", row, err)
		}
		sheet.Records = append(sheet.Records, article)
	}

	return sheet, columns, nil
}

func parseArticle(row int, record []string, columns *ColumnMap) (*entities.ArticleRecord, error) {
	id := columns.Value(record, entities.FieldID)

	demand, err := ParseNumber(columns.Value(record, entities.FieldDemand21))
	if err != nil {
		return nil, fmt.Errorf("invalid demand21: %w", err)
	}

	stock, err := ParseNumber(columns.Value(record, entities.FieldVirtualStock))
	if err != nil {
		return nil, fmt.Errorf("invalid virtual stock: %w", err)
	}

	casePack, err := parsePack(columns.Value(record, entities.FieldCasePack))
	if err != nil {
		return nil, fmt.Errorf("invalid case pack: %w", err)
	}

	palletPack, err := parsePack(columns.Value(record, entities.FieldPalletPack))
	if err != nil {
		return nil, fmt.Errorf("invalid pallet pack: %w", err)
	}

	lastSale := ParseDate(columns.Value(record, entities.FieldLastSaleDate))

	return entities.NewArticleRecord(
		row,
		entities.ArticleID(normalizeID(id)),
		columns.Value(record, entities.FieldDescription),
		demand,
		stock,
		casePack,
		palletPack,
		lastSale,
	)
}

// ParseNumber parses a numeric cell. Empty cells read as zero. Both "1234.5" and
// the European "1.234,5" forms are accepted.
func ParseNumber(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, nil
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0 && strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", s)
	}
	return d, nil
}

func parsePack(s string) (entities.Quantity, error) {
	d, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	// formula cells read raw can carry binary float noise
	d = d.Round(packPlaces)
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("pack size must be whole, got %s", d)
	}
	return entities.Quantity(d.IntPart()), nil
}

// ParseDate parses a last-sale cell. Anything unparseable yields nil, which the
// planner treats as recently sold.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	if serial, err := decimal.NewFromString(s); err == nil && serial.IsPositive() && serial.LessThanOrEqual(decimal.NewFromInt(maxExcelSerial)) {
		t := excelEpoch.AddDate(0, 0, int(serial.IntPart()))
		return &t
	}

	return nil
}

// normalizeID drops the ".0" spreadsheets append to numeric codes
func normalizeID(id string) string {
	if strings.HasSuffix(id, ".0") {
		if _, err := decimal.NewFromString(id); err == nil {
			return strings.TrimSuffix(id, ".0")
		}
	}
	return id
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
