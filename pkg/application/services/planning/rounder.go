package planning

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// RoundToCasePack snaps a raw quantity down to a whole number of box layers
func RoundToCasePack(raw decimal.Decimal, casePack entities.Quantity) entities.Quantity {
	if !raw.IsPositive() {
		return 0
	}
	layers := raw.Div(casePack.Decimal()).Floor().IntPart()
	return entities.Quantity(layers) * casePack
}
