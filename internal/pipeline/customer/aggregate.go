package customer

import (
	"time"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/aggregate"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
)

var kind = aggregate.Kind[domain.RawRow, domain.MonthlyRecord, domain.CustomerSummary]{
	Fill:   aggregate.FillZero,
	Entity: func(r domain.RawRow) string { return r.Customer },
	Period: func(r domain.RawRow) domain.MonthID { return r.Period },
	Record: func(r domain.RawRow) domain.MonthlyRecord {
		return domain.MonthlyRecord{
			Period:    r.Period,
			Revenue:   r.Revenue,
			Profit:    r.Profit,
			MarginPct: r.MarginPct,
		}
	},
	Merge: mergeMonth,
	Empty: func(p domain.MonthID) domain.MonthlyRecord {
		return domain.MonthlyRecord{Period: p}
	},
	Summarize: summarize,
	SetSlug:   func(c *domain.CustomerSummary, slug string) { c.Slug = slug },
	Name:      func(c domain.CustomerSummary) string { return c.Name },
	Total:     func(c domain.CustomerSummary) float64 { return c.TotalRevenue },
}

// Aggregate builds the customer dataset from validated rows.
func Aggregate(rows []domain.RawRow, now time.Time) domain.Dataset {
	out := aggregate.Aggregate(rows, kind)
	return domain.Dataset{
		MonthsAvailable: out.MonthsAvailable,
		Customers:       out.Entities,
		GeneratedAt:     now.UTC().Format(time.RFC3339),
	}
}

// mergeMonth combines two lines of the same customer and month. Margin is
// weighted by revenue; without revenue the first reported margin is kept.
func mergeMonth(a, b domain.MonthlyRecord) domain.MonthlyRecord {
	merged := domain.MonthlyRecord{
		Period:  a.Period,
		Revenue: aggregate.Add(a.Revenue, b.Revenue),
		Profit:  aggregate.Add(a.Profit, b.Profit),
	}

	var points []aggregate.Weighted
	for _, m := range []domain.MonthlyRecord{a, b} {
		if m.MarginPct != nil {
			points = append(points, aggregate.Weighted{Value: *m.MarginPct, Weight: m.Revenue})
		}
	}
	merged.MarginPct = aggregate.WeightedAverage(points)
	if merged.MarginPct == nil && len(points) > 0 {
		first := points[0].Value
		merged.MarginPct = &first
	}
	return merged
}

// WeightedMargin is the revenue-weighted margin over months that reported a
// margin and had revenue, or nil when there are none.
func WeightedMargin(months []domain.MonthlyRecord) *float64 {
	var points []aggregate.Weighted
	for _, m := range months {
		if m.MarginPct != nil && m.Revenue > 0 {
			points = append(points, aggregate.Weighted{Value: *m.MarginPct, Weight: m.Revenue})
		}
	}
	return aggregate.WeightedAverage(points)
}

func summarize(name string, months []domain.MonthlyRecord) domain.CustomerSummary {
	c := domain.CustomerSummary{
		Name:         name,
		Months:       months,
		TotalRevenue: aggregate.Sum(months, func(m domain.MonthlyRecord) float64 { return m.Revenue }),
		TotalProfit:  aggregate.Sum(months, func(m domain.MonthlyRecord) float64 { return m.Profit }),
		AvgMarginPct: WeightedMargin(months),
		RevenueTrend: domain.TrendFlat,
		ProfitTrend:  domain.TrendFlat,
	}

	first, last, ok := aggregate.Window(c.Activity())
	if !ok {
		return c
	}

	firstMonth, lastMonth := months[first].Period, months[last].Period
	c.FirstMonth, c.LastMonth = &firstMonth, &lastMonth

	spans := first != last
	revenue := aggregate.Measure(months[first].Revenue, months[last].Revenue, spans, aggregate.PositiveBase)
	profit := aggregate.Measure(months[first].Profit, months[last].Profit, spans, aggregate.NonZeroBase)

	c.RevenueDeltaAbs, c.RevenueDeltaPct = revenue.Abs, revenue.Pct
	c.ProfitDeltaAbs, c.ProfitDeltaPct = profit.Abs, profit.Pct
	c.RevenueTrend = aggregate.BuildTrend.Classify(revenue)
	c.ProfitTrend = aggregate.BuildTrend.Classify(profit)
	return c
}
