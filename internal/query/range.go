// Package query recomputes metrics over a caller-selected month range and
// filters entities by their range trend. All functions are pure and work on
// immutable dataset snapshots.
package query

import (
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/aggregate"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/customer"
)

// Entity is anything with a name and a per-month activity series.
type Entity interface {
	EntityName() string
	Activity() []domain.ActivityPoint
}

// FilterTrend classifies range trends at ±0.1%.
var FilterTrend = aggregate.TrendPolicy{Up: 0.1, Down: -0.1}

// ComputeRangeMetrics sums a customer's months within r.
func ComputeRangeMetrics(c domain.CustomerSummary, r domain.MonthRange) domain.RangeMetrics {
	var months []domain.MonthlyRecord
	for _, m := range c.Months {
		if r.Contains(m.Period) {
			months = append(months, m)
		}
	}

	total := aggregate.Sum(months, func(m domain.MonthlyRecord) float64 { return m.Revenue })
	return domain.RangeMetrics{
		TotalRevenue: total,
		TotalProfit:  aggregate.Sum(months, func(m domain.MonthlyRecord) float64 { return m.Profit }),
		AvgMarginPct: customer.WeightedMargin(months),
		HasActivity:  total > 0,
	}
}

// ComputeSupplierRangeMetrics sums a supplier's months within r.
func ComputeSupplierRangeMetrics(s domain.SupplierSummary, r domain.MonthRange) domain.SupplierRangeMetrics {
	var months []domain.SupplierMonthly
	for _, m := range s.Months {
		if r.Contains(m.Period) {
			months = append(months, m)
		}
	}

	total := aggregate.Sum(months, func(m domain.SupplierMonthly) float64 { return m.Turnover })
	return domain.SupplierRangeMetrics{
		TotalTurnover: total,
		TotalItems:    aggregate.Sum(months, func(m domain.SupplierMonthly) float64 { return m.Items }),
		HasActivity:   total > 0,
	}
}

// rangeActivity is the summed activity of e within r.
func rangeActivity(e Entity, r domain.MonthRange) float64 {
	var points []domain.ActivityPoint
	for _, p := range e.Activity() {
		if r.Contains(p.Period) {
			points = append(points, p)
		}
	}
	return aggregate.Sum(points, func(p domain.ActivityPoint) float64 { return p.Value })
}

// ComputeRangeTrend compares the first and last active months of e. The window
// is r when both bounds are set, otherwise the entity's own active lifetime.
// Entities with fewer than two active months overall are FLAT.
func ComputeRangeTrend(e Entity, r domain.MonthRange) domain.RangeTrend {
	flat := domain.RangeTrend{Trend: domain.TrendFlat}

	activity := e.Activity()
	var active []domain.ActivityPoint
	for _, p := range activity {
		if p.Value > 0 {
			active = append(active, p)
		}
	}
	if len(active) < 2 {
		return flat
	}

	window := r
	if !r.Bounded() {
		window = domain.MonthRange{Start: active[0].Period, End: active[len(active)-1].Period}
	}

	var inWindow []domain.ActivityPoint
	for _, p := range active {
		if window.Contains(p.Period) {
			inWindow = append(inWindow, p)
		}
	}
	if len(inWindow) < 2 {
		return flat
	}

	first, last := inWindow[0].Value, inWindow[len(inWindow)-1].Value
	pct := aggregate.Percent(first, last)
	return domain.RangeTrend{
		Trend:      FilterTrend.Classify(aggregate.Change{Base: first, Abs: last - first, Pct: &pct}),
		Percentage: &pct,
	}
}
