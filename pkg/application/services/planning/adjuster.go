package planning

import "github.com/vsinha/palletplan/pkg/domain/entities"

// CompletePallet returns the adjustment that avoids shipping a pallet with a stray
// partial layer: an almost empty last pallet is dropped, an almost full one is
// completed. The magnitude is always below one pallet pack.
func CompletePallet(complete, casePack, palletPack entities.Quantity) entities.Quantity {
	remainder := complete % palletPack
	if remainder == 0 {
		return 0
	}
	if remainder <= casePack {
		return -remainder
	}
	if palletPack-remainder <= casePack {
		return palletPack - remainder
	}
	return 0
}

// adjust applies CompletePallet to a computed order
func adjust(order *entities.ComputedOrder) {
	article := order.Article
	complete := order.CompleteOrder()
	order.Adjustment = CompletePallet(complete, article.EffectiveCasePack(), article.EffectivePalletPack())
	order.FinalOrder = max(complete+order.Adjustment, 0)
}
