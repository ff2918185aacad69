package tabular

import (
	"strings"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// ColumnSynonyms maps each canonical field to the header names accepted for it,
// in priority order. Headers are compared after NormalizeHeader.
var ColumnSynonyms = map[entities.Field][]string{
	entities.FieldID:           {"articulo", "código de artículo", "codigo de articulo", "id", "article"},
	entities.FieldDescription:  {"descripción de artículo", "descripcion de articulo", "nombre del producto", "description"},
	entities.FieldDemand21:     {"21 días", "21 dias", "21_dias", "21dias", "demand21"},
	entities.FieldVirtualStock: {"stock virtual", "stock_virtual", "stockvirtual", "virtual_stock", "virtualstock"},
	entities.FieldCasePack:     {"cajascapas", "cajas capas", "cajas_capas", "case_pack", "casepack"},
	entities.FieldPalletPack:   {"cajaspalet", "cajas palet", "cajas_palet", "pallet_pack", "palletpack"},
	entities.FieldLastSaleDate: {"última venta", "ultima venta", "fecha última venta", "fecha_ultima_venta", "last_sale_date", "lastsaledate"},
}

// fieldOrder fixes the resolution order so results are deterministic
var fieldOrder = []entities.Field{
	entities.FieldID,
	entities.FieldDescription,
	entities.FieldDemand21,
	entities.FieldVirtualStock,
	entities.FieldCasePack,
	entities.FieldPalletPack,
	entities.FieldLastSaleDate,
}

// NormalizeHeader trims and lowercases a header cell
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
}

// ColumnMap records where each canonical field was found in a header row
type ColumnMap struct {
	index    map[entities.Field]int
	Detected []string
}

// ResolveColumns maps a header row onto canonical fields. The first synonym
// present wins for each field.
func ResolveColumns(header []string) *ColumnMap {
	positions := make(map[string]int, len(header))
	detected := make([]string, 0, len(header))
	for i, cell := range header {
		name := NormalizeHeader(cell)
		detected = append(detected, name)
		if _, exists := positions[name]; !exists {
			positions[name] = i
		}
	}

	columns := &ColumnMap{
		index:    make(map[entities.Field]int),
		Detected: detected,
	}
	for _, field := range fieldOrder {
		for _, synonym := range ColumnSynonyms[field] {
			if i, ok := positions[synonym]; ok {
				columns.index[field] = i
				break
			}
		}
	}
	return columns
}

// Index returns the column position of a field
func (c *ColumnMap) Index(field entities.Field) (int, bool) {
	i, ok := c.index[field]
	return i, ok
}

// Fields returns the canonical fields present, in canonical order
func (c *ColumnMap) Fields() []entities.Field {
	fields := make([]entities.Field, 0, len(c.index))
	for _, field := range fieldOrder {
		if _, ok := c.index[field]; ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// Value returns the trimmed cell for a field, or "" when the field or cell is absent
func (c *ColumnMap) Value(record []string, field entities.Field) string {
	i, ok := c.index[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
