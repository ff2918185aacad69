package planning

import (
	"time"

	"github.com/vsinha/palletplan/pkg/domain/entities"
)

// StalenessFilter drops articles whose last sale is older than a cutoff.
// Both sides are compared as wall-clock readings, since sheet dates carry no zone.
type StalenessFilter struct {
	cutoff time.Time
}

// NewStalenessFilter creates a filter relative to now
func NewStalenessFilter(now time.Time, staleAfterDays int) *StalenessFilter {
	return &StalenessFilter{
		cutoff: wallClock(now.AddDate(0, 0, -staleAfterDays)),
	}
}

// Cutoff returns the oldest last-sale date still considered recent
func (f *StalenessFilter) Cutoff() time.Time {
	return f.cutoff
}

// IsStale reports whether an article has a known last sale before the cutoff.
// Unknown dates count as recently sold.
func (f *StalenessFilter) IsStale(article *entities.ArticleRecord) bool {
	return article.LastSaleDate != nil && wallClock(*article.LastSaleDate).Before(f.cutoff)
}

// wallClock keeps the date and time of day of t and drops its zone
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Apply splits records into kept and dropped, preserving order
func (f *StalenessFilter) Apply(records []*entities.ArticleRecord) (kept, dropped []*entities.ArticleRecord) {
	kept = make([]*entities.ArticleRecord, 0, len(records))
	for _, record := range records {
		if f.IsStale(record) {
			dropped = append(dropped, record)
			continue
		}
		kept = append(kept, record)
	}
	return kept, dropped
}
