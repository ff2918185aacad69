package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/application/services/planning"
	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/infrastructure/events"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/memory"
)

// PlanStore keeps the results of finished runs
type PlanStore interface {
	SavePlan(plan *dto.PlanResult) error
	GetPlan(runID uuid.UUID) (*dto.PlanResult, error)
	ListPlans() []*dto.PlanResult
}

// PlanningOrchestrator runs the planner for uploaded sheets, records every run as an
// event stream keyed by run id and keeps the results for later download.
type PlanningOrchestrator struct {
	planner    *planning.PlanningService
	plans      PlanStore
	eventStore events.EventStore
	logger     *zap.Logger
}

// NewPlanningOrchestrator creates a new planning orchestrator
func NewPlanningOrchestrator(
	planner *planning.PlanningService,
	plans PlanStore,
	eventStore events.EventStore,
	logger *zap.Logger,
) *PlanningOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningOrchestrator{
		planner:    planner,
		plans:      plans,
		eventStore: eventStore,
		logger:     logger,
	}
}

// Config returns the planning configuration runs use
func (po *PlanningOrchestrator) Config() entities.PlanningConfig {
	return po.planner.Config()
}

// WithPlanner returns an orchestrator sharing this one's stores but planning with
// another service, used for per-request parameter overrides
func (po *PlanningOrchestrator) WithPlanner(planner *planning.PlanningService) *PlanningOrchestrator {
	copied := *po
	copied.planner = planner
	return &copied
}

// RunPlanning plans a loaded sheet. source names where the sheet came from.
func (po *PlanningOrchestrator) RunPlanning(
	ctx context.Context,
	source string,
	sheet *entities.ArticleSheet,
) (*dto.PlanResult, error) {
	if sheet == nil {
		return nil, fmt.Errorf("no sheet provided for planning")
	}

	config := po.planner.Config()
	runID := uuid.New()
	stream := runID.String()
	startedAt := config.ReferenceTime()
	logger := po.logger.With(zap.String("run_id", stream), zap.String("source", source))

	po.appendEvent(stream, events.NewRunStartedEvent(stream, source, len(sheet.Records), dto.PlanParameters{
		TargetDays:          config.TargetDays,
		NumArticlesForExtra: config.NumArticlesForExtra,
		Rounding:            config.Rounding.String(),
		StaleAfterDays:      config.StaleAfterDays,
		TruckPallets:        entities.TruckPallets,
	}, startedAt))

	// Step 1: Reject sheets without the required columns before touching any row
	if missing := sheet.MissingFields(); len(missing) > 0 {
		po.appendEvent(stream, events.NewSheetRejectedEvent(stream, missing, startedAt))
		logger.Warn("sheet rejected", zap.Any("missing", missing))
		return nil, &entities.SchemaError{Missing: missing}
	}

	// Step 2: Load the catalog; repeated ids stay separate order lines
	catalog := memory.NewArticleRepository(len(sheet.Records))
	if err := catalog.LoadArticles(sheet.Records); err != nil {
		return nil, po.fail(stream, startedAt, fmt.Errorf("failed to load articles: %w", err))
	}
	if dups := catalog.Duplicates(); len(dups) > 0 {
		logger.Warn("repeated article ids", zap.Any("ids", dups))
	}
	articles, err := catalog.GetAllArticles()
	if err != nil {
		return nil, po.fail(stream, startedAt, fmt.Errorf("failed to read articles: %w", err))
	}

	// Step 3: Plan
	result, err := po.planner.PlanRun(ctx, runID, &entities.ArticleSheet{
		Columns: sheet.Columns,
		Records: articles,
	})
	if err != nil {
		var schemaErr *entities.SchemaError
		if errors.As(err, &schemaErr) {
			po.appendEvent(stream, events.NewSheetRejectedEvent(stream, schemaErr.Missing, startedAt))
			return nil, err
		}
		return nil, po.fail(stream, startedAt, fmt.Errorf("failed to plan: %w", err))
	}

	// Step 4: Record the outcome
	for _, event := range events.NewResultEvents(result) {
		po.appendEvent(stream, event)
	}
	if err := po.plans.SavePlan(result); err != nil {
		return nil, fmt.Errorf("failed to store plan: %w", err)
	}

	logger.Info("planning run completed",
		zap.Int("submittable_rows", result.Summary.SubmittableRows),
		zap.String("final_pallets", result.Summary.FinalPallets.String()))

	return result, nil
}

// GetPlan returns the result of a finished run
func (po *PlanningOrchestrator) GetPlan(runID uuid.UUID) (*dto.PlanResult, error) {
	return po.plans.GetPlan(runID)
}

// ListPlans returns the stored results, newest first
func (po *PlanningOrchestrator) ListPlans() []*dto.PlanResult {
	return po.plans.ListPlans()
}

// Events returns the event stream of a run
func (po *PlanningOrchestrator) Events(runID uuid.UUID) ([]events.Event, error) {
	return po.eventStore.ReadEvents(runID.String(), 0)
}

func (po *PlanningOrchestrator) fail(stream string, at time.Time, err error) error {
	po.appendEvent(stream, events.NewPlanFailedEvent(stream, err, at))
	po.logger.Error("planning run failed", zap.String("run_id", stream), zap.Error(err))
	return err
}

func (po *PlanningOrchestrator) appendEvent(stream string, event events.Event) {
	if err := po.eventStore.AppendEvent(stream, event); err != nil {
		po.logger.Warn("failed to record event",
			zap.String("run_id", stream),
			zap.String("event_type", event.Type()),
			zap.Error(err))
	}
}
