// Package analytics turns a purchase-event history into repurchase metrics.
// It is pure computation: callers fetch the events and persist the result.
package analytics

import (
	"time"

	"github.com/yungbote/pantrypilot-backend/internal/pkg/pointers"
	"github.com/yungbote/pantrypilot-backend/internal/types"
)

// Metrics is the result of one recompute over a (user, product) history.
type Metrics struct {
	TotalPurchases          int
	FirstPurchaseDate       time.Time
	LastPurchaseDate        time.Time
	AvgDaysBetweenPurchases *float64
	DaysSinceLastPurchase   float64
	MinDaysInterval         *float64
	MaxDaysInterval         *float64
	RepurchaseUrgency       float64
	RepurchaseProbability   float64
	EstimatedNextPurchase   *time.Time
}

// daysBetween is the whole-day delta from a to b, truncated toward zero.
// Negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// Compute derives repurchase metrics from the full, ascending-by-date
// purchase history of one item. totalOccasions is the count of distinct
// purchase dates across all of the user's items and feeds the probability
// denominator. Returns nil when records is empty: no history, no metrics.
//
// The average interval is span-based, (last-first)/(n-1), not the mean of
// the consecutive gaps; downstream consumers depend on that exact value.
func Compute(records []*types.PurchaseRecord, totalOccasions int64, now time.Time) *Metrics {
	if len(records) == 0 {
		return nil
	}

	m := &Metrics{
		TotalPurchases:    len(records),
		FirstPurchaseDate: records[0].PurchaseDate,
		LastPurchaseDate:  records[len(records)-1].PurchaseDate,
	}

	if m.TotalPurchases > 1 {
		spanDays := daysBetween(m.FirstPurchaseDate, m.LastPurchaseDate)
		m.AvgDaysBetweenPurchases = pointers.Float64(float64(spanDays) / float64(m.TotalPurchases-1))
	}

	m.DaysSinceLastPurchase = float64(daysBetween(m.LastPurchaseDate, now))

	for i := 1; i < len(records); i++ {
		gap := float64(daysBetween(records[i-1].PurchaseDate, records[i].PurchaseDate))
		if m.MinDaysInterval == nil || gap < *m.MinDaysInterval {
			m.MinDaysInterval = pointers.Float64(gap)
		}
		if m.MaxDaysInterval == nil || gap > *m.MaxDaysInterval {
			m.MaxDaysInterval = pointers.Float64(gap)
		}
	}

	// Urgency is a ratio against the item's own cadence; unbounded above.
	if m.AvgDaysBetweenPurchases != nil && *m.AvgDaysBetweenPurchases > 0 {
		m.RepurchaseUrgency = (m.DaysSinceLastPurchase / *m.AvgDaysBetweenPurchases) * 100
	}

	occasions := totalOccasions
	if occasions <= 0 {
		occasions = 1
	}
	m.RepurchaseProbability = (float64(m.TotalPurchases) / float64(occasions)) * 100

	if m.AvgDaysBetweenPurchases != nil {
		next := m.LastPurchaseDate.Add(time.Duration(*m.AvgDaysBetweenPurchases * 24 * float64(time.Hour)))
		m.EstimatedNextPurchase = &next
	}

	return m
}

// Apply overwrites every derived field of pa with this recompute's values.
// There is no incremental merge: stale values never survive a refresh.
func (m *Metrics) Apply(pa *types.ProductAnalytics) {
	pa.TotalPurchases = m.TotalPurchases
	first := m.FirstPurchaseDate
	last := m.LastPurchaseDate
	pa.FirstPurchaseDate = &first
	pa.LastPurchaseDate = &last
	pa.AvgDaysBetweenPurchases = m.AvgDaysBetweenPurchases
	pa.DaysSinceLastPurchase = pointers.Float64(m.DaysSinceLastPurchase)
	pa.MinDaysInterval = m.MinDaysInterval
	pa.MaxDaysInterval = m.MaxDaysInterval
	pa.RepurchaseUrgency = m.RepurchaseUrgency
	pa.RepurchaseProbability = m.RepurchaseProbability
	pa.EstimatedNextPurchaseDate = m.EstimatedNextPurchase
}
