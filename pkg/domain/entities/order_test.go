package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputedOrder_CompleteOrder(t *testing.T) {
	article, err := NewArticleRecord(1, "A", "Article A", decimal.NewFromInt(100), decimal.Zero, 10, 100, nil)
	if err != nil {
		t.Fatalf("Failed to create article: %v", err)
	}

	order := NewComputedOrder(article)
	if !order.TotalPallets.IsZero() || order.FinalOrder != 0 {
		t.Errorf("Expected a new order to start at zero")
	}

	order.BaseOrder = 100
	order.AdditionalOrder = 92
	if got := order.CompleteOrder(); got != 192 {
		t.Errorf("Expected complete order 192, got %d", got)
	}
}

func TestComputedOrder_Submittable(t *testing.T) {
	article, _ := NewArticleRecord(3, "B", "Article B", decimal.NewFromInt(200), decimal.Zero, 12, 120, nil)

	order := NewComputedOrder(article)
	order.BaseOrder = 204
	order.OriginalPallets = decimal.RequireFromString("1.7")
	order.AdditionalOrder = 36
	order.AdditionalPallets = decimal.RequireFromString("0.3")
	order.TotalPallets = decimal.NewFromInt(2)
	order.Adjustment = 0
	order.FinalOrder = 240

	line := order.Submittable()
	if line.ID != "B" || line.Description != "Article B" {
		t.Errorf("Expected article identity to carry over, got %s/%s", line.ID, line.Description)
	}
	if line.BaseOrder != 204 || line.AdditionalOrder != 36 || line.FinalOrder != 240 {
		t.Errorf("Unexpected quantities: %+v", line)
	}
	if !line.TotalPallets.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected 2 total pallets, got %s", line.TotalPallets)
	}
}
