package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ArticleID represents a unique article identifier
type ArticleID string

// Quantity represents an integer quantity value for discrete units
type Quantity int64

// Decimal returns the quantity as a decimal value
func (q Quantity) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}

// Field is the canonical name of an input column
type Field string

const (
	FieldID           Field = "id"
	FieldDescription  Field = "description"
	FieldDemand21     Field = "demand21"
	FieldVirtualStock Field = "virtualStock"
	FieldCasePack     Field = "casePack"
	FieldPalletPack   Field = "palletPack"
	FieldLastSaleDate Field = "lastSaleDate"
)

// RequiredFields lists the canonical fields every sheet must provide, in report order
var RequiredFields = []Field{
	FieldID,
	FieldDescription,
	FieldDemand21,
	FieldVirtualStock,
	FieldCasePack,
	FieldPalletPack,
}

// ArticleRecord is one input row. It is never mutated after loading.
type ArticleRecord struct {
	Row          int             `json:"row"`
	ID           ArticleID       `json:"id"`
	Description  string          `json:"description"`
	Demand21     decimal.Decimal `json:"demand21"`
	VirtualStock decimal.Decimal `json:"virtual_stock"`
	CasePack     Quantity        `json:"case_pack"`
	PalletPack   Quantity        `json:"pallet_pack"`
	LastSaleDate *time.Time      `json:"last_sale_date,omitempty"`
}

// NewArticleRecord creates a validated ArticleRecord
func NewArticleRecord(
	row int,
	id ArticleID,
	description string,
	demand21, virtualStock decimal.Decimal,
	casePack, palletPack Quantity,
	lastSaleDate *time.Time,
) (*ArticleRecord, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("article id cannot be empty")
	}
	if demand21.IsNegative() {
		return nil, fmt.Errorf("demand21 cannot be negative, got %s", demand21)
	}
	if casePack < 0 {
		return nil, fmt.Errorf("case pack cannot be negative, got %d", casePack)
	}
	if palletPack < 0 {
		return nil, fmt.Errorf("pallet pack cannot be negative, got %d", palletPack)
	}

	return &ArticleRecord{
		Row:          row,
		ID:           id,
		Description:  description,
		Demand21:     demand21,
		VirtualStock: virtualStock,
		CasePack:     casePack,
		PalletPack:   palletPack,
		LastSaleDate: lastSaleDate,
	}, nil
}

// EffectiveCasePack returns the case pack used for arithmetic, never below 1
func (a *ArticleRecord) EffectiveCasePack() Quantity {
	return max(a.CasePack, 1)
}

// EffectivePalletPack returns the pallet pack used for arithmetic, never below 1
func (a *ArticleRecord) EffectivePalletPack() Quantity {
	return max(a.PalletPack, 1)
}

// PackagingIssues reports which packaging values were substituted
func (a *ArticleRecord) PackagingIssues() []PackagingIssue {
	var issues []PackagingIssue
	if a.CasePack == 0 {
		issues = append(issues, ZeroCasePack)
	}
	if a.PalletPack == 0 {
		issues = append(issues, ZeroPalletPack)
	}
	return issues
}

// HasPackagingError reports whether the record needs manual packaging correction
func (a *ArticleRecord) HasPackagingError() bool {
	return a.CasePack == 0 || a.PalletPack == 0
}

// PackagingIssue describes a packaging data anomaly
type PackagingIssue int

const (
	ZeroCasePack PackagingIssue = iota
	ZeroPalletPack
)

// String method for PackagingIssue enum
func (p PackagingIssue) String() string {
	switch p {
	case ZeroCasePack:
		return "ZeroCasePack"
	case ZeroPalletPack:
		return "ZeroPalletPack"
	default:
		return "Unknown"
	}
}

// ArticleSheet is a batch of records together with the canonical columns that were present
type ArticleSheet struct {
	Columns []Field
	Records []*ArticleRecord
}

// HasField reports whether the sheet carried the given canonical column
func (s *ArticleSheet) HasField(field Field) bool {
	for _, f := range s.Columns {
		if f == field {
			return true
		}
	}
	return false
}

// MissingFields returns the required fields absent from the sheet
func (s *ArticleSheet) MissingFields() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if !s.HasField(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
