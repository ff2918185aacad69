package planning

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/domain/services"
)

// PlanningService runs the replenishment pipeline:
// evaluate -> case-pack round -> balance (barrier) -> complete pallets -> classify.
type PlanningService struct {
	config     entities.PlanningConfig
	validator  *services.SheetValidator
	balancer   *ShipmentBalancer
	classifier *Classifier
	logger     *zap.Logger
}

// NewPlanningService creates a planning service with default configuration.
// It panics if the defaults fail validation.
func NewPlanningService(logger *zap.Logger) *PlanningService {
	service, err := NewPlanningServiceWithConfig(entities.DefaultPlanningConfig(), logger)
	if err != nil {
		panic(fmt.Sprintf("invalid default planning configuration: %v", err))
	}
	return service
}

// NewPlanningServiceWithConfig creates a planning service with custom configuration
func NewPlanningServiceWithConfig(config entities.PlanningConfig, logger *zap.Logger) (*PlanningService, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PlanningService{
		config:     config,
		validator:  services.NewSheetValidator(),
		balancer:   NewShipmentBalancer(config.NumArticlesForExtra, config.Rounding),
		classifier: NewClassifier(),
		logger:     logger,
	}, nil
}

// Config returns the configuration the service runs with
func (s *PlanningService) Config() entities.PlanningConfig {
	return s.config
}

// Plan computes a full plan for the sheet under a fresh run id
func (s *PlanningService) Plan(ctx context.Context, sheet *entities.ArticleSheet) (*dto.PlanResult, error) {
	return s.PlanRun(ctx, uuid.New(), sheet)
}

// PlanRun computes a full plan for the sheet. A missing required field aborts the
// run with *entities.SchemaError before any computation.
func (s *PlanningService) PlanRun(ctx context.Context, runID uuid.UUID, sheet *entities.ArticleSheet) (*dto.PlanResult, error) {
	validation := s.validator.ValidateSheet(sheet)
	if err := validation.SchemaError(); err != nil {
		return nil, err
	}
	if validation.Fatal() {
		return nil, fmt.Errorf("sheet validation failed: %v", validation.Errors)
	}
	for _, warning := range validation.Warnings {
		s.logger.Warn(warning, zap.String("run_id", runID.String()))
	}

	now := s.config.ReferenceTime()
	result := &dto.PlanResult{
		RunID:       runID,
		GeneratedAt: now,
		Parameters: dto.PlanParameters{
			TargetDays:          s.config.TargetDays,
			NumArticlesForExtra: s.config.NumArticlesForExtra,
			Rounding:            s.config.Rounding.String(),
			StaleAfterDays:      s.config.StaleAfterDays,
			TruckPallets:        entities.TruckPallets,
		},
	}
	result.Summary.InputRows = len(sheet.Records)

	// Step 1: Drop articles without a recent sale
	records := sheet.Records
	if sheet.HasField(entities.FieldLastSaleDate) {
		filter := NewStalenessFilter(now, s.config.StaleAfterDays)
		kept, dropped := filter.Apply(records)
		records = kept
		result.Summary.StalenessApplied = true
		result.Summary.StaleDropped = len(dropped)
		s.logger.Debug("staleness filter applied",
			zap.Time("cutoff", filter.Cutoff()),
			zap.Int("dropped", len(dropped)))
	}

	// Step 2: Evaluate demand and round to case packs, per article
	orders := make([]*entities.ComputedOrder, len(records))
	err := s.forEach(ctx, len(records), func(i int) {
		article := records[i]
		evaluation := Evaluate(article, s.config.TargetDays, s.config.Rounding)
		order := entities.NewComputedOrder(article)
		order.NeededStock = evaluation.NeededStock
		order.ExcessStock = evaluation.ExcessStock
		order.RawOrder = evaluation.RawOrder
		order.BaseOrder = RoundToCasePack(evaluation.RawOrder, article.EffectiveCasePack())
		orders[i] = order
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate articles: %w", err)
	}

	// Step 3: Balance the shipment to whole trucks; needs every base order
	result.Balance = s.balancer.Balance(orders)
	s.logger.Debug("shipment balanced",
		zap.String("total_pallets", result.Balance.TotalPallets.String()),
		zap.String("shortfall", result.Balance.Shortfall.String()),
		zap.Int("selected", len(result.Balance.Selected)))

	// Step 4: Complete or trim the last pallet, per article
	err = s.forEach(ctx, len(orders), func(i int) {
		adjust(orders[i])
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust pallets: %w", err)
	}

	// Step 5: Classify
	classification := s.classifier.Classify(orders)
	result.Plan = orders
	result.Errors = classification.Errors
	result.DiscontinueCandidates = classification.Discontinue
	result.Submittable = classification.Submittable

	s.summarize(result)

	s.logger.Info("plan computed",
		zap.String("run_id", runID.String()),
		zap.Int("input_rows", result.Summary.InputRows),
		zap.Int("planned_rows", result.Summary.PlannedRows),
		zap.Int("submittable_rows", result.Summary.SubmittableRows),
		zap.Int64("final_units", int64(result.Summary.TotalFinalUnits)))

	return result, nil
}

// summarize fills the summary counters from the computed views
func (s *PlanningService) summarize(result *dto.PlanResult) {
	summary := &result.Summary
	summary.PlannedRows = len(result.Plan)
	summary.ErrorRows = len(result.Errors)
	summary.DiscontinueRows = len(result.DiscontinueCandidates)
	summary.SubmittableRows = len(result.Submittable)

	finalPallets := decimal.Zero
	for _, order := range result.Plan {
		summary.TotalBaseUnits += order.BaseOrder
		summary.TotalFinalUnits += order.FinalOrder
		finalPallets = finalPallets.Add(order.FinalOrder.Decimal().Div(order.Article.EffectivePalletPack().Decimal()))
	}
	summary.FinalPallets = finalPallets.Round(palletSumPlaces)
}

// forEach runs fn for every index on a bounded worker pool. Each call owns its index,
// so callers write results into pre-sized slices and keep input order.
func (s *PlanningService) forEach(ctx context.Context, n int, fn func(i int)) error {
	workers := s.workerCount(n)
	if workers <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
		}
		return nil
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(i)
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	return ctx.Err()
}

// workerCount picks the pool size for n items
func (s *PlanningService) workerCount(n int) int {
	workers := s.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return min(workers, n)
}
