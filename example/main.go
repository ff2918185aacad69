package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/application/services/planning"
	"github.com/vsinha/palletplan/pkg/domain/entities"
)

func main() {
	ctx := context.Background()

	// A small beverage catalog: demand over the last 21 days, stock on hand and pack sizes
	catalog := []struct {
		id           string
		description  string
		demand21     int64
		virtualStock int64
		casePack     entities.Quantity
		palletPack   entities.Quantity
		lastSale     string
	}{
		{"100234", "Agua mineral 1.5L", 1890, 240, 6, 540, "2025-03-28"},
		{"100871", "Zumo naranja 1L", 630, 96, 12, 480, "2025-03-30"},
		{"101002", "Refresco cola 2L", 1470, 600, 6, 360, "2025-03-29"},
		{"101540", "Tónica 200ml", 84, 120, 24, 1920, "2025-02-11"},
		{"102117", "Horchata 1L", 0, -12, 6, 480, "2024-09-02"},
		{"102980", "Sidra 75cl", 210, 10, 0, 0, "2025-03-25"},
	}

	records := make([]*entities.ArticleRecord, 0, len(catalog))
	for i, item := range catalog {
		lastSale, _ := time.Parse("2006-01-02", item.lastSale)
		record, err := entities.NewArticleRecord(
			i+1,
			entities.ArticleID(item.id),
			item.description,
			decimal.NewFromInt(item.demand21),
			decimal.NewFromInt(item.virtualStock),
			item.casePack,
			item.palletPack,
			&lastSale,
		)
		if err != nil {
			fmt.Printf("❌ Invalid article %s: %v\n", item.id, err)
			return
		}
		records = append(records, record)
	}

	config := entities.DefaultPlanningConfig()
	config.NumArticlesForExtra = 3
	config.Now = func() time.Time { return time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC) }

	planner, err := planning.NewPlanningServiceWithConfig(config, nil)
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		return
	}

	sheet := &entities.ArticleSheet{
		Columns: append(append([]entities.Field(nil), entities.RequiredFields...), entities.FieldLastSaleDate),
		Records: records,
	}

	fmt.Println("🚚 Planning a 33-pallet shipment...")
	fmt.Printf("Articles: %d   Target days: %d   Top-up articles: %d\n",
		len(records), config.TargetDays, config.NumArticlesForExtra)
	fmt.Println()

	result, err := planner.Plan(ctx, sheet)
	if err != nil {
		fmt.Printf("❌ Planning failed: %v\n", err)
		return
	}

	fmt.Println("📊 Shipment balance:")
	fmt.Printf("  Pallets from base orders: %s\n", result.Balance.TotalPallets.StringFixed(2))
	fmt.Printf("  Shortfall to fill the truck: %s\n", result.Balance.Shortfall.StringFixed(2))
	fmt.Printf("  Pallets after top-up: %s\n", result.Balance.ResultingPallets.StringFixed(2))
	fmt.Println()

	fmt.Println("📋 Order lines:")
	for _, order := range result.Plan {
		marker := " "
		if order.Selected {
			marker = "*"
		}
		fmt.Printf("  %s %-8s %-22s base %5d  +%5d  adjust %4d  final %5d\n",
			marker,
			order.Article.ID,
			order.Article.Description,
			order.BaseOrder,
			order.AdditionalOrder,
			order.Adjustment,
			order.FinalOrder)
	}
	fmt.Println()

	if len(result.Errors) > 0 {
		fmt.Println("⚠️  Articles with missing pack sizes:")
		for _, order := range result.Errors {
			fmt.Printf("  %s %s\n", order.Article.ID, order.Article.Description)
		}
	}
	if len(result.DiscontinueCandidates) > 0 {
		fmt.Println("🗑  Discontinue candidates:")
		for _, order := range result.DiscontinueCandidates {
			fmt.Printf("  %s %s\n", order.Article.ID, order.Article.Description)
		}
	}
}
