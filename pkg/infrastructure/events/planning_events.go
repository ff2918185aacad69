package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/domain/entities"
)

const (
	RunStartedEvent       = "run.started"
	SheetRejectedEvent    = "sheet.rejected"
	ArticlesFilteredEvent = "articles.filtered"
	ShipmentBalancedEvent = "shipment.balanced"
	PlanCompletedEvent    = "plan.completed"
	PlanFailedEvent       = "plan.failed"
)

// AllPlanningEvents lists every event type a planning run can emit
var AllPlanningEvents = []string{
	RunStartedEvent,
	SheetRejectedEvent,
	ArticlesFilteredEvent,
	ShipmentBalancedEvent,
	PlanCompletedEvent,
	PlanFailedEvent,
}

type RunStarted struct {
	Source     string             `json:"source"`
	InputRows  int                `json:"input_rows"`
	Parameters dto.PlanParameters `json:"parameters"`
}

type SheetRejected struct {
	Missing []entities.Field `json:"missing"`
}

type ArticlesFiltered struct {
	StalenessApplied bool `json:"staleness_applied"`
	Dropped          int  `json:"dropped"`
	Kept             int  `json:"kept"`
}

type ShipmentBalanced struct {
	TotalPallets     decimal.Decimal      `json:"total_pallets"`
	Shortfall        decimal.Decimal      `json:"shortfall"`
	Selected         []entities.ArticleID `json:"selected"`
	ResultingPallets decimal.Decimal      `json:"resulting_pallets"`
}

type PlanCompleted struct {
	Summary dto.PlanSummary `json:"summary"`
}

type PlanFailed struct {
	Reason string `json:"reason"`
}

func NewRunStartedEvent(runID, source string, inputRows int, parameters dto.PlanParameters, at time.Time) Event {
	return NewEventAt(RunStartedEvent, runID, RunStarted{Source: source, InputRows: inputRows, Parameters: parameters}, at)
}

func NewSheetRejectedEvent(runID string, missing []entities.Field, at time.Time) Event {
	return NewEventAt(SheetRejectedEvent, runID, SheetRejected{Missing: missing}, at)
}

func NewPlanFailedEvent(runID string, err error, at time.Time) Event {
	return NewEventAt(PlanFailedEvent, runID, PlanFailed{Reason: err.Error()}, at)
}

// NewResultEvents derives the filter, balance and completion events of a finished run
func NewResultEvents(result *dto.PlanResult) []Event {
	runID := result.RunID.String()
	at := result.GeneratedAt

	return []Event{
		NewEventAt(ArticlesFilteredEvent, runID, ArticlesFiltered{
			StalenessApplied: result.Summary.StalenessApplied,
			Dropped:          result.Summary.StaleDropped,
			Kept:             result.Summary.PlannedRows,
		}, at),
		NewEventAt(ShipmentBalancedEvent, runID, ShipmentBalanced{
			TotalPallets:     result.Balance.TotalPallets,
			Shortfall:        result.Balance.Shortfall,
			Selected:         result.Balance.Selected,
			ResultingPallets: result.Balance.ResultingPallets,
		}, at),
		NewEventAt(PlanCompletedEvent, runID, PlanCompleted{Summary: result.Summary}, at),
	}
}
