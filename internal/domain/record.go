package domain

import (
	"errors"
	"time"
)

var (
	// ErrRecordNotFound is returned when a record id does not exist in the store.
	ErrRecordNotFound = errors.New("usage record not found")
	// ErrDuplicateRecord is returned when a save matches an existing record's
	// period, item count and sample item.
	ErrDuplicateRecord = errors.New("usage record already saved for this period")
)

// UsageRecord is the persistence payload handed to a RecordStore: a full
// processed collection plus the parameters and period it was computed for.
type UsageRecord struct {
	ID          string                `json:"id"`
	PeriodStart string                `json:"period_start"`
	PeriodEnd   string                `json:"period_end"`
	Items       []StockItem           `json:"items"`
	Parameters  CalculationParameters `json:"parameters"`
	Totals      UsageSummary          `json:"totals"`
	CreatedAt   time.Time             `json:"created_at"`
}

// RecordSummary is the listing shape for saved records. The sample fields
// carry enough of the first item to support duplicate detection without
// loading the full payload.
type RecordSummary struct {
	ID               string    `json:"id"`
	PeriodStart      string    `json:"period_start"`
	PeriodEnd        string    `json:"period_end"`
	ItemCount        int       `json:"item_count"`
	TotalCostOfUsage float64   `json:"total_cost_of_usage"`
	SampleItemCode   string    `json:"sample_item_code"`
	SampleUsage      float64   `json:"sample_usage"`
	CreatedAt        time.Time `json:"created_at"`
}

// Summarize projects a record into its listing shape.
func (r UsageRecord) Summarize() RecordSummary {
	s := RecordSummary{
		ID:               r.ID,
		PeriodStart:      r.PeriodStart,
		PeriodEnd:        r.PeriodEnd,
		ItemCount:        len(r.Items),
		TotalCostOfUsage: r.Totals.TotalCostOfUsage,
		CreatedAt:        r.CreatedAt,
	}
	if len(r.Items) > 0 {
		s.SampleItemCode = r.Items[0].ItemCode
		s.SampleUsage = r.Items[0].Usage
	}
	return s
}

// MatchesSummary reports whether the record would be considered a duplicate
// of an already-saved record described by the summary: same period, same item
// count and a high-confidence first-item match.
func (r UsageRecord) MatchesSummary(s RecordSummary) bool {
	if r.PeriodStart != s.PeriodStart || r.PeriodEnd != s.PeriodEnd {
		return false
	}
	if len(r.Items) != s.ItemCount {
		return false
	}
	if len(r.Items) == 0 {
		return true
	}
	first := r.Items[0]
	return first.ItemCode == s.SampleItemCode && first.Usage == s.SampleUsage
}
