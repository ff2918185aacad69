package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vsinha/palletplan/pkg/application/dto"
)

// PlanRepository keeps computed plans in process memory, keyed by run id
type PlanRepository struct {
	plans map[uuid.UUID]*dto.PlanResult
	mutex sync.RWMutex
	limit int
}

// NewPlanRepository creates a plan store holding at most limit plans (0 = unlimited).
// The oldest plan is evicted first.
func NewPlanRepository(limit int) *PlanRepository {
	return &PlanRepository{
		plans: make(map[uuid.UUID]*dto.PlanResult),
		limit: limit,
	}
}

// SavePlan stores a plan
func (r *PlanRepository) SavePlan(plan *dto.PlanResult) error {
	if plan == nil {
		return fmt.Errorf("plan cannot be nil")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.plans[plan.RunID] = plan
	if r.limit > 0 {
		for len(r.plans) > r.limit {
			r.evictOldest()
		}
	}
	return nil
}

// GetPlan returns a stored plan
func (r *PlanRepository) GetPlan(runID uuid.UUID) (*dto.PlanResult, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	plan, exists := r.plans[runID]
	if !exists {
		return nil, fmt.Errorf("plan not found: %s", runID)
	}
	return plan, nil
}

// ListPlans returns stored plans, newest first
func (r *PlanRepository) ListPlans() []*dto.PlanResult {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	plans := make([]*dto.PlanResult, 0, len(r.plans))
	for _, plan := range r.plans {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].GeneratedAt.After(plans[j].GeneratedAt)
	})
	return plans
}

// evictOldest must be called with the write lock held
func (r *PlanRepository) evictOldest() {
	var oldest *dto.PlanResult
	for _, plan := range r.plans {
		if oldest == nil || plan.GeneratedAt.Before(oldest.GeneratedAt) {
			oldest = plan
		}
	}
	if oldest != nil {
		delete(r.plans, oldest.RunID)
	}
}
