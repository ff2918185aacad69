package tabular

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

func TestResolveColumns_SpanishHeaders(t *testing.T) {
	header := []string{"\ufeffArticulo", " Descripción de Artículo ", "21 Días", "Stock Virtual", "CajasCapas", "CajasPalet", "Última venta"}

	columns := ResolveColumns(header)

	expected := map[entities.Field]int{
		entities.FieldID:           0,
		entities.FieldDescription:  1,
		entities.FieldDemand21:     2,
		entities.FieldVirtualStock: 3,
		entities.FieldCasePack:     4,
		entities.FieldPalletPack:   5,
		entities.FieldLastSaleDate: 6,
	}
	for field, want := range expected {
		got, ok := columns.Index(field)
		if !ok {
			t.Errorf("Expected field %s to be resolved", field)
			continue
		}
		if got != want {
			t.Errorf("Expected %s at column %d, got %d", field, want, got)
		}
	}

	if columns.Detected[0] != "articulo" {
		t.Errorf("Expected normalized header 'articulo', got %q", columns.Detected[0])
	}
}

func TestResolveColumns_FirstSynonymWins(t *testing.T) {
	columns := ResolveColumns([]string{"id", "articulo", "description", "21_dias", "stock_virtual", "cajas_capas", "cajas_palet"})

	got, _ := columns.Index(entities.FieldID)
	if got != 1 {
		t.Errorf("Expected 'articulo' to win for id, got column %d", got)
	}
	if len(columns.Fields()) != len(entities.RequiredFields) {
		t.Errorf("Expected %d fields, got %d", len(entities.RequiredFields), len(columns.Fields()))
	}
}

func TestParseSheet(t *testing.T) {
	rows := [][]string{
		{"articulo", "nombre del producto", "21 días", "stock virtual", "cajascapas", "cajaspalet", "última venta"},
		{"1001.0", "Agua 1L", "420", "35", "12", "144", "2025-03-01"},
		{"", "", "", "", "", "", ""},
		{"1002", "Zumo", "1.234,5", "-7", "6", "60", "garbage"},
	}

	sheet, _, err := ParseSheet(rows)
	if err != nil {
		t.Fatalf("Failed to parse sheet: %v", err)
	}

	if !sheet.HasField(entities.FieldLastSaleDate) {
		t.Errorf("Expected last-sale column to be detected")
	}
	if len(sheet.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(sheet.Records))
	}

	first := sheet.Records[0]
	if first.ID != "1001" {
		t.Errorf("Expected id 1001, got %s", first.ID)
	}
	if first.Row != 2 {
		t.Errorf("Expected row 2, got %d", first.Row)
	}
	if first.LastSaleDate == nil || !first.LastSaleDate.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected last sale 2025-03-01, got %v", first.LastSaleDate)
	}

	second := sheet.Records[1]
	if second.Row != 4 {
		t.Errorf("Expected row 4, got %d", second.Row)
	}
	if !second.Demand21.Equal(decimal.RequireFromString("1234.5")) {
		t.Errorf("Expected demand 1234.5, got %s", second.Demand21)
	}
	if !second.VirtualStock.Equal(decimal.NewFromInt(-7)) {
		t.Errorf("Expected stock -7, got %s", second.VirtualStock)
	}
	if second.LastSaleDate != nil {
		t.Errorf("Expected unparseable date to be nil, got %v", second.LastSaleDate)
	}
}

func TestParseSheet_MissingColumns(t *testing.T) {
	rows := [][]string{
		{"id", "description", "casepack"},
		{"A", "Article A", "10"},
	}

	sheet, _, err := ParseSheet(rows)
	if err != nil {
		t.Fatalf("Expected missing columns to be reported on the sheet, got error: %v", err)
	}

	missing := sheet.MissingFields()
	expected := []entities.Field{entities.FieldDemand21, entities.FieldVirtualStock, entities.FieldPalletPack}
	if len(missing) != len(expected) {
		t.Fatalf("Expected missing %v, got %v", expected, missing)
	}
	for i := range expected {
		if missing[i] != expected[i] {
			t.Errorf("Expected missing[%d] = %s, got %s", i, expected[i], missing[i])
		}
	}
	if len(sheet.Records) != 0 {
		t.Errorf("Expected no records, got %d", len(sheet.Records))
	}
}

func TestParseSheet_Errors(t *testing.T) {
	header := []string{"id", "description", "demand21", "virtual_stock", "case_pack", "pallet_pack"}

	tests := []struct {
		name string
		rows [][]string
	}{
		{"empty", nil},
		{"bad number", [][]string{header, {"A", "x", "lots", "0", "1", "1"}}},
		{"fractional pack", [][]string{header, {"A", "x", "1", "0", "1.5", "1"}}},
		{"negative demand", [][]string{header, {"A", "x", "-1", "0", "1", "1"}}},
		{"missing id", [][]string{header, {"", "x", "1", "0", "1", "1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseSheet(tt.rows); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestParseSheet_PackFloatNoise(t *testing.T) {
	rows := [][]string{
		{"id", "description", "demand21", "virtual_stock", "case_pack", "pallet_pack"},
		{"A", "Formula packs", "100", "0", "12.000000000000002", "143.99999999999997"},
	}

	sheet, _, err := ParseSheet(rows)
	if err != nil {
		t.Fatalf("Failed to parse sheet: %v", err)
	}

	article := sheet.Records[0]
	if article.CasePack != 12 {
		t.Errorf("Expected case pack 12, got %d", article.CasePack)
	}
	if article.PalletPack != 144 {
		t.Errorf("Expected pallet pack 144, got %d", article.PalletPack)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "0"},
		{"42", "42"},
		{" 12.5 ", "12.5"},
		{"12,5", "12.5"},
		{"1.234,5", "1234.5"},
		{"1,234.5", "1234.5"},
		{"1,234,567", "1234567"},
		{"-7", "-7"},
		{"1 000", "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNumber(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}

	if _, err := ParseNumber("n/a"); err == nil {
		t.Errorf("Expected error for non-numeric input")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected *time.Time
	}{
		{"2025-01-15", date(2025, 1, 15)},
		{"15/01/2025", date(2025, 1, 15)},
		{"2025-01-15 10:30:00", ptr(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))},
		{"45000", date(2023, 3, 15)},
		{"", nil},
		{"yesterday", nil},
		{"0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.expected == nil {
				if got != nil {
					t.Errorf("Expected nil, got %v", got)
				}
				return
			}
			if got == nil || !got.Equal(*tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func date(year int, month time.Month, day int) *time.Time {
	return ptr(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func ptr(t time.Time) *time.Time {
	return &t
}
