package planning

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// palletSumPlaces absorbs the residue of per-article decimal division in the aggregate
const palletSumPlaces = 8

// ShipmentBalancer tops up the fastest-moving articles so the shipment fills whole trucks
type ShipmentBalancer struct {
	truckPallets decimal.Decimal
	numArticles  int
	rounding     entities.RoundingMode
}

// NewShipmentBalancer creates a balancer distributing the shortfall over numArticles articles
func NewShipmentBalancer(numArticles int, rounding entities.RoundingMode) *ShipmentBalancer {
	return &ShipmentBalancer{
		truckPallets: decimal.NewFromInt(entities.TruckPallets),
		numArticles:  numArticles,
		rounding:     rounding,
	}
}

// Shortfall returns the pallets missing to reach the next truck multiple, zero if already full
func (b *ShipmentBalancer) Shortfall(totalPallets decimal.Decimal) decimal.Decimal {
	return b.truckPallets.Sub(totalPallets.Mod(b.truckPallets)).Mod(b.truckPallets)
}

// Balance needs every base order to be final. It sets the pallet fields and the
// additional order of each computed order and reports the aggregate.
func (b *ShipmentBalancer) Balance(orders []*entities.ComputedOrder) dto.BalanceReport {
	total := decimal.Zero
	for _, order := range orders {
		order.OriginalPallets = order.BaseOrder.Decimal().Div(order.Article.EffectivePalletPack().Decimal())
		order.AdditionalOrder = 0
		order.Selected = false
		total = total.Add(order.OriginalPallets)
	}
	total = total.Round(palletSumPlaces)

	report := dto.BalanceReport{
		TotalPallets: total,
		Shortfall:    b.Shortfall(total),
		Selected:     make([]entities.ArticleID, 0),
		AddedPallets: decimal.Zero,
	}

	if report.Shortfall.IsPositive() {
		k := decimal.NewFromInt(int64(b.numArticles))
		for _, order := range b.TopArticles(orders) {
			pallet := order.Article.EffectivePalletPack()
			share := b.rounding.Round(report.Shortfall.Mul(pallet.Decimal()).Div(k)).IntPart()
			order.AdditionalOrder = entities.Quantity(share) / pallet * pallet
			order.Selected = true
			report.Selected = append(report.Selected, order.Article.ID)
		}
	}

	for _, order := range orders {
		pallet := order.Article.EffectivePalletPack()
		order.AdditionalPallets = decimal.NewFromInt(int64(order.AdditionalOrder / pallet))
		order.TotalPallets = order.OriginalPallets.Add(order.AdditionalPallets)
		report.AddedPallets = report.AddedPallets.Add(order.AdditionalPallets)
	}
	report.ResultingPallets = report.TotalPallets.Add(report.AddedPallets)

	return report
}

// TopArticles returns up to numArticles orders ranked by demand21 descending.
// Ties keep input order.
func (b *ShipmentBalancer) TopArticles(orders []*entities.ComputedOrder) []*entities.ComputedOrder {
	ranked := make([]*entities.ComputedOrder, len(orders))
	copy(ranked, orders)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Article.Demand21.GreaterThan(ranked[j].Article.Demand21)
	})
	if len(ranked) > b.numArticles {
		ranked = ranked[:b.numArticles]
	}
	return ranked
}
