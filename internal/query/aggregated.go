package query

import (
	"strings"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/aggregate"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/parse"
)

// ComputeAggregatedMetrics summarises customers over r. Revenue and profit are
// totalled over every customer; margin and trend counts only over customers
// active in r.
func ComputeAggregatedMetrics(customers []domain.CustomerSummary, r domain.MonthRange) domain.AggregatedMetrics {
	var (
		out      domain.AggregatedMetrics
		revenue  []float64
		profit   []float64
		weighted []aggregate.Weighted
	)

	for _, c := range customers {
		m := ComputeRangeMetrics(c, r)
		revenue = append(revenue, m.TotalRevenue)
		profit = append(profit, m.TotalProfit)

		if !m.HasActivity {
			continue
		}
		out.ActiveCustomers++
		if m.AvgMarginPct != nil {
			weighted = append(weighted, aggregate.Weighted{Value: *m.AvgMarginPct, Weight: m.TotalRevenue})
		}

		switch ComputeRangeTrend(c, r).Trend {
		case domain.TrendUp:
			out.GrowingCustomers++
		case domain.TrendDown:
			out.DecliningCustomers++
		default:
			out.StableCustomers++
		}
	}

	identity := func(v float64) float64 { return v }
	out.TotalRevenue = aggregate.Sum(revenue, identity)
	out.TotalProfit = aggregate.Sum(profit, identity)
	out.AvgMarginPct = aggregate.WeightedAverage(weighted)
	return out
}

// Search keeps entities whose name contains q, ignoring case and diacritics.
func Search[E Entity](entities []E, q string) []E {
	needle := parse.NormalizeForSearch(q)
	if needle == "" {
		return entities
	}

	out := make([]E, 0, len(entities))
	for _, e := range entities {
		if strings.Contains(parse.NormalizeForSearch(e.EntityName()), needle) {
			out = append(out, e)
		}
	}
	return out
}
