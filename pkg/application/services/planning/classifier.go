package planning

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// DiscontinueDemandThreshold is the demand21 below which an article is a discontinue candidate
const DiscontinueDemandThreshold = 5

// Classification holds the three named views over the final rows. A row may appear in several.
type Classification struct {
	Errors      []*entities.ComputedOrder
	Discontinue []*entities.ComputedOrder
	Submittable []entities.SubmittableLine
}

// Classifier partitions final rows into error, discontinue and submittable views
type Classifier struct {
	discontinueBelow decimal.Decimal
}

// NewClassifier creates a classifier with the default discontinue threshold
func NewClassifier() *Classifier {
	return &Classifier{
		discontinueBelow: decimal.NewFromInt(DiscontinueDemandThreshold),
	}
}

// IsError reports whether the order needs manual packaging correction
func (c *Classifier) IsError(order *entities.ComputedOrder) bool {
	return order.Article.HasPackagingError()
}

// IsDiscontinueCandidate reports whether the article barely moves
func (c *Classifier) IsDiscontinueCandidate(order *entities.ComputedOrder) bool {
	return order.Article.Demand21.LessThan(c.discontinueBelow)
}

// IsSubmittable reports whether the order has anything to submit
func (c *Classifier) IsSubmittable(order *entities.ComputedOrder) bool {
	return order.FinalOrder > 0
}

// Classify builds the three views, each in input order
func (c *Classifier) Classify(orders []*entities.ComputedOrder) Classification {
	result := Classification{
		Errors:      make([]*entities.ComputedOrder, 0),
		Discontinue: make([]*entities.ComputedOrder, 0),
		Submittable: make([]entities.SubmittableLine, 0, len(orders)),
	}

	for _, order := range orders {
		if c.IsError(order) {
			result.Errors = append(result.Errors, order)
		}
		if c.IsDiscontinueCandidate(order) {
			result.Discontinue = append(result.Discontinue, order)
		}
		if c.IsSubmittable(order) {
			result.Submittable = append(result.Submittable, order.Submittable())
		}
	}

	return result
}
