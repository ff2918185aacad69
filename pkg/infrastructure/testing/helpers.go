package testing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/memory"
)

// ReferenceNow is the fixed clock used by scenario builders
var ReferenceNow = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

// FixedClock returns a clock that always reads ReferenceNow
func FixedClock() func() time.Time {
	return func() time.Time { return ReferenceNow }
}

// NewArticle builds an article record, panicking on invalid input
func NewArticle(row int, id string, demand21, virtualStock float64, casePack, palletPack int64) *entities.ArticleRecord {
	article, err := entities.NewArticleRecord(
		row,
		entities.ArticleID(id),
		fmt.Sprintf("Article %s", id),
		decimal.NewFromFloat(demand21),
		decimal.NewFromFloat(virtualStock),
		entities.Quantity(casePack),
		entities.Quantity(palletPack),
		nil,
	)
	if err != nil {
		panic(err)
	}
	return article
}

// WithLastSale returns a copy of the article with a last-sale date
func WithLastSale(article *entities.ArticleRecord, lastSale time.Time) *entities.ArticleRecord {
	copied := *article
	copied.LastSaleDate = &lastSale
	return &copied
}

// NewSheet wraps records in a sheet carrying every required column
func NewSheet(records ...*entities.ArticleRecord) *entities.ArticleSheet {
	columns := make([]entities.Field, len(entities.RequiredFields))
	copy(columns, entities.RequiredFields)
	return &entities.ArticleSheet{
		Columns: columns,
		Records: records,
	}
}

// NewSheetWithLastSale wraps records in a sheet that also carries the last-sale column
func NewSheetWithLastSale(records ...*entities.ArticleRecord) *entities.ArticleSheet {
	sheet := NewSheet(records...)
	sheet.Columns = append(sheet.Columns, entities.FieldLastSaleDate)
	return sheet
}

// BuildWorkedExampleSheet builds the five-article scenario: case packs 10..25,
// pallet packs 100..250, demand 100..500, no stock. Planned with 21 target days
// the base orders are 100, 192, 300, 400 and 500.
func BuildWorkedExampleSheet() *entities.ArticleSheet {
	return NewSheet(
		NewArticle(1, "A", 100, 0, 10, 100),
		NewArticle(2, "B", 200, 0, 12, 120),
		NewArticle(3, "C", 300, 0, 15, 150),
		NewArticle(4, "D", 400, 0, 20, 200),
		NewArticle(5, "E", 500, 0, 25, 250),
	)
}

// BuildMixedCatalogSheet builds a catalog exercising every classification:
// a zero-pack article, a zero-demand article with backorder, a slow mover and
// regular articles.
func BuildMixedCatalogSheet() *entities.ArticleSheet {
	return NewSheet(
		NewArticle(1, "REG-1", 420, 35, 12, 144),
		NewArticle(2, "ZERO-PACK", 42, 0, 0, 0),
		NewArticle(3, "NO-DEMAND", 0, -7, 6, 60),
		NewArticle(4, "SLOW", 3, 40, 4, 48),
		NewArticle(5, "REG-2", 630, 120, 24, 480),
		NewArticle(6, "REG-3", 210, 500, 10, 100),
	)
}

// BuildArticleRepository loads the records into a fresh in-memory repository
func BuildArticleRepository(sheet *entities.ArticleSheet) *memory.ArticleRepository {
	repo := memory.NewArticleRepository(len(sheet.Records))
	if err := repo.LoadArticles(sheet.Records); err != nil {
		panic(err)
	}
	return repo
}
