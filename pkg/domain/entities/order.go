package entities

import (
	"github.com/shopspring/decimal"
)

// TruckPallets is the pallet capacity of one full truck
const TruckPallets = 33

// ComputedOrder holds the derived quantities for one article. Each pipeline stage
// fills in its own fields.
type ComputedOrder struct {
	Article *ArticleRecord `json:"article"`

	NeededStock decimal.Decimal `json:"needed_stock"`
	ExcessStock decimal.Decimal `json:"excess_stock"`
	RawOrder    decimal.Decimal `json:"raw_order"`
	BaseOrder   Quantity        `json:"base_order"`

	OriginalPallets   decimal.Decimal `json:"original_pallets"`
	Selected          bool            `json:"selected_for_extra"`
	AdditionalOrder   Quantity        `json:"additional_order"`
	AdditionalPallets decimal.Decimal `json:"additional_pallets"`
	TotalPallets      decimal.Decimal `json:"total_pallets"`

	Adjustment Quantity `json:"adjustment"`
	FinalOrder Quantity `json:"final_order"`
}

// NewComputedOrder starts a computed order for an article with all quantities at zero
func NewComputedOrder(article *ArticleRecord) *ComputedOrder {
	return &ComputedOrder{
		Article:           article,
		NeededStock:       decimal.Zero,
		ExcessStock:       decimal.Zero,
		RawOrder:          decimal.Zero,
		OriginalPallets:   decimal.Zero,
		AdditionalPallets: decimal.Zero,
		TotalPallets:      decimal.Zero,
	}
}

// CompleteOrder is the base order plus any truck-fill top-up
func (o *ComputedOrder) CompleteOrder() Quantity {
	return o.BaseOrder + o.AdditionalOrder
}

// SubmittableLine is the projection of a computed order sent for order submission
type SubmittableLine struct {
	ID                ArticleID       `json:"id"`
	Description       string          `json:"description"`
	BaseOrder         Quantity        `json:"base_order"`
	OriginalPallets   decimal.Decimal `json:"original_pallets"`
	AdditionalOrder   Quantity        `json:"additional_order"`
	AdditionalPallets decimal.Decimal `json:"additional_pallets"`
	TotalPallets      decimal.Decimal `json:"total_pallets"`
	FinalOrder        Quantity        `json:"final_order"`
}

// Submittable projects the order onto the submission fields
func (o *ComputedOrder) Submittable() SubmittableLine {
	return SubmittableLine{
		ID:                o.Article.ID,
		Description:       o.Article.Description,
		BaseOrder:         o.BaseOrder,
		OriginalPallets:   o.OriginalPallets,
		AdditionalOrder:   o.AdditionalOrder,
		AdditionalPallets: o.AdditionalPallets,
		TotalPallets:      o.TotalPallets,
		FinalOrder:        o.FinalOrder,
	}
}
