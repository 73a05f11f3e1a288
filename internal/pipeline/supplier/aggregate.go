package supplier

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/aggregate"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
)

var kind = aggregate.Kind[domain.SupplierRawRow, domain.SupplierMonthly, domain.SupplierSummary]{
	Fill:   aggregate.FillNone,
	Entity: func(r domain.SupplierRawRow) string { return r.Supplier },
	Period: func(r domain.SupplierRawRow) domain.MonthID { return r.Period },
	Record: func(r domain.SupplierRawRow) domain.SupplierMonthly {
		return domain.SupplierMonthly{Period: r.Period, Turnover: r.Turnover, Items: r.Items}
	},
	Merge: func(a, b domain.SupplierMonthly) domain.SupplierMonthly {
		return domain.SupplierMonthly{
			Period:   a.Period,
			Turnover: aggregate.Add(a.Turnover, b.Turnover),
			Items:    aggregate.Add(a.Items, b.Items),
		}
	},
	Summarize: summarize,
	SetSlug:   func(s *domain.SupplierSummary, slug string) { s.Slug = slug },
	Name:      func(s domain.SupplierSummary) string { return s.Name },
	Total:     func(s domain.SupplierSummary) float64 { return s.TotalTurnover },
}

// Aggregate builds the supplier dataset from validated rows.
func Aggregate(rows []domain.SupplierRawRow, now time.Time) domain.SupplierDataset {
	out := aggregate.Aggregate(rows, kind)
	return domain.SupplierDataset{
		MonthsAvailable: out.MonthsAvailable,
		Suppliers:       out.Entities,
		GeneratedAt:     now.UTC().Format(time.RFC3339),
	}
}

// Abbreviation is the upper-cased initials of the first two words of name.
func Abbreviation(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func itemPoints(months []domain.SupplierMonthly) []domain.ActivityPoint {
	points := make([]domain.ActivityPoint, len(months))
	for i, m := range months {
		points[i] = domain.ActivityPoint{Period: m.Period, Value: m.Items}
	}
	return points
}

func summarize(name string, months []domain.SupplierMonthly) domain.SupplierSummary {
	s := domain.SupplierSummary{
		Name:          name,
		Abbreviation:  Abbreviation(name),
		Months:        months,
		TotalTurnover: aggregate.Sum(months, func(m domain.SupplierMonthly) float64 { return m.Turnover }),
		TotalItems:    aggregate.Sum(months, func(m domain.SupplierMonthly) float64 { return m.Items }),
		TurnoverTrend: domain.TrendFlat,
		ItemsTrend:    domain.TrendFlat,
	}
	if len(months) > 0 {
		s.AvgItemsPerMonth = s.TotalItems / float64(len(months))
	}

	if first, last, ok := aggregate.Window(s.Activity()); ok {
		firstMonth, lastMonth := months[first].Period, months[last].Period
		s.FirstMonth, s.LastMonth = &firstMonth, &lastMonth

		turnover := aggregate.Measure(months[first].Turnover, months[last].Turnover, first != last, aggregate.PositiveBase)
		s.TurnoverDeltaAbs, s.TurnoverDeltaPct = turnover.Abs, turnover.Pct
		s.TurnoverTrend = aggregate.SupplierTrend.Classify(turnover)
	}

	if first, last, ok := aggregate.Window(itemPoints(months)); ok {
		items := aggregate.Measure(months[first].Items, months[last].Items, first != last, aggregate.PositiveBase)
		s.ItemsDeltaAbs, s.ItemsDeltaPct = items.Abs, items.Pct
		s.ItemsTrend = aggregate.SupplierTrend.Classify(items)
	}

	return s
}
