package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// PlanResult contains the complete output of a planning run
type PlanResult struct {
	RunID       uuid.UUID      `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Parameters  PlanParameters `json:"parameters"`

	Plan                  []*entities.ComputedOrder  `json:"plan"`
	Errors                []*entities.ComputedOrder  `json:"errors"`
	DiscontinueCandidates []*entities.ComputedOrder  `json:"discontinue_candidates"`
	Submittable           []entities.SubmittableLine `json:"submittable"`

	Balance BalanceReport `json:"balance"`
	Summary PlanSummary   `json:"summary"`
}

// PlanParameters echoes the configuration a run used
type PlanParameters struct {
	TargetDays          int    `json:"target_days"`
	NumArticlesForExtra int    `json:"num_articles_for_extra"`
	Rounding            string `json:"rounding"`
	StaleAfterDays      int    `json:"stale_after_days"`
	TruckPallets        int    `json:"truck_pallets"`
}

// BalanceReport describes what the shipment-fill balancer did
type BalanceReport struct {
	TotalPallets     decimal.Decimal      `json:"total_pallets"`
	Shortfall        decimal.Decimal      `json:"shortfall"`
	Selected         []entities.ArticleID `json:"selected"`
	AddedPallets     decimal.Decimal      `json:"added_pallets"`
	ResultingPallets decimal.Decimal      `json:"resulting_pallets"`
}

// PlanSummary holds row counts and totals for a run
type PlanSummary struct {
	InputRows        int               `json:"input_rows"`
	StalenessApplied bool              `json:"staleness_applied"`
	StaleDropped     int               `json:"stale_dropped"`
	PlannedRows      int               `json:"planned_rows"`
	ErrorRows        int               `json:"error_rows"`
	DiscontinueRows  int               `json:"discontinue_rows"`
	SubmittableRows  int               `json:"submittable_rows"`
	TotalBaseUnits   entities.Quantity `json:"total_base_units"`
	TotalFinalUnits  entities.Quantity `json:"total_final_units"`
	FinalPallets     decimal.Decimal   `json:"final_pallets"`
}
