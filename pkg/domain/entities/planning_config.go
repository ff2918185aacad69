package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultTargetDays          = 21
	DefaultNumArticlesForExtra = 10
	DefaultStaleAfterDays      = 90

	MinTargetDays          = 1
	MaxTargetDays          = 90
	MinNumArticlesForExtra = 1
	MaxNumArticlesForExtra = 20

	// DemandWindowDays is the length of the demand21 reference window
	DemandWindowDays = 21
)

// RoundingMode selects how fractional quantities are rounded to whole units
type RoundingMode int

const (
	RoundHalfUp RoundingMode = iota
	RoundHalfEven
)

// String method for RoundingMode enum
func (r RoundingMode) String() string {
	switch r {
	case RoundHalfUp:
		return "half_up"
	case RoundHalfEven:
		return "half_even"
	default:
		return "Unknown"
	}
}

// ParseRoundingMode parses a rounding mode name
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "half_up", "halfup":
		return RoundHalfUp, nil
	case "half_even", "halfeven", "bankers", "banker":
		return RoundHalfEven, nil
	default:
		return RoundHalfUp, fmt.Errorf("invalid rounding mode: %s (expected: half_up or half_even)", s)
	}
}

var half = decimal.NewFromFloat(0.5)

// Round rounds d to the nearest integer under the mode
func (r RoundingMode) Round(d decimal.Decimal) decimal.Decimal {
	if r == RoundHalfEven {
		return d.RoundBank(0)
	}
	// ties go toward +Inf, also for negative values
	return d.Add(half).Floor()
}

// PlanningConfig carries every parameter of a planning run
type PlanningConfig struct {
	TargetDays          int
	NumArticlesForExtra int
	Rounding            RoundingMode
	StaleAfterDays      int
	// Workers bounds per-article parallelism; 0 or less means one worker per CPU
	Workers int
	// Now is the reference time for the staleness filter; nil means time.Now
	Now func() time.Time
}

// DefaultPlanningConfig returns the default planning parameters
func DefaultPlanningConfig() PlanningConfig {
	return PlanningConfig{
		TargetDays:          DefaultTargetDays,
		NumArticlesForExtra: DefaultNumArticlesForExtra,
		Rounding:            RoundHalfUp,
		StaleAfterDays:      DefaultStaleAfterDays,
	}
}

// Validate checks the configured ranges
func (c PlanningConfig) Validate() error {
	if c.TargetDays < MinTargetDays || c.TargetDays > MaxTargetDays {
		return &ConfigError{
			Field:  "target_days",
			Value:  c.TargetDays,
			Reason: fmt.Sprintf("must be between %d and %d", MinTargetDays, MaxTargetDays),
		}
	}
	if c.NumArticlesForExtra < MinNumArticlesForExtra || c.NumArticlesForExtra > MaxNumArticlesForExtra {
		return &ConfigError{
			Field:  "num_articles_for_extra",
			Value:  c.NumArticlesForExtra,
			Reason: fmt.Sprintf("must be between %d and %d", MinNumArticlesForExtra, MaxNumArticlesForExtra),
		}
	}
	if c.StaleAfterDays < 0 {
		return &ConfigError{Field: "stale_after_days", Value: c.StaleAfterDays, Reason: "cannot be negative"}
	}
	if c.Rounding != RoundHalfUp && c.Rounding != RoundHalfEven {
		return &ConfigError{Field: "rounding", Value: int(c.Rounding), Reason: "unknown rounding mode"}
	}
	return nil
}

// ReferenceTime returns the configured clock reading
func (c PlanningConfig) ReferenceTime() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
