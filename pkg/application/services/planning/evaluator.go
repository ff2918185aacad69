package planning

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

var demandWindow = decimal.NewFromInt(entities.DemandWindowDays)

// Evaluation is the demand/stock evaluation of one article
type Evaluation struct {
	NeededStock decimal.Decimal
	ExcessStock decimal.Decimal
	RawOrder    decimal.Decimal
}

// Evaluate converts trailing demand and current stock into a target order quantity
func Evaluate(article *entities.ArticleRecord, targetDays int, rounding entities.RoundingMode) Evaluation {
	// multiply first so exact halves survive the division
	needed := rounding.Round(article.Demand21.Mul(decimal.NewFromInt(int64(targetDays))).Div(demandWindow))
	excess := rounding.Round(article.VirtualStock.Sub(needed))
	raw := decimal.Max(needed.Sub(article.VirtualStock), decimal.Zero)

	return Evaluation{
		NeededStock: needed,
		ExcessStock: excess,
		RawOrder:    raw,
	}
}
