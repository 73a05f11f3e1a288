// Package aggregate turns validated rows into per-entity monthly series with
// totals, deltas and trend classification. Customers and suppliers share the
// same routine and differ only in their Kind.
package aggregate

import (
	"sort"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
)

// FillPolicy decides how an entity's series relates to monthsAvailable.
type FillPolicy int

const (
	// FillNone keeps only the periods the entity actually appears in.
	FillNone FillPolicy = iota
	// FillZero emits exactly one record per month in monthsAvailable.
	FillZero
)

// Kind describes one entity kind. R is the validated row, M the monthly
// record and S the summary.
type Kind[R, M, S any] struct {
	Fill FillPolicy

	Entity func(R) string
	Period func(R) domain.MonthID
	Record func(R) M

	// Merge combines two rows of the same entity and period.
	Merge func(existing, next M) M

	// Empty builds the record for a month without data. Only used by FillZero.
	Empty func(domain.MonthID) M

	Summarize func(name string, months []M) S
	SetSlug   func(s *S, slug string)
	Name      func(S) string
	Total     func(S) float64
}

// Output is the result of one aggregation.
type Output[S any] struct {
	MonthsAvailable []domain.MonthID
	Entities        []S
}

type group[M any] struct {
	name    string
	records map[domain.MonthID]M
}

// Aggregate groups rows by exact entity name, canonicalizes each series,
// assigns unique slugs and sorts entities by Total descending (name ascending
// on ties). It is deterministic for a given row order.
func Aggregate[R, M, S any](rows []R, kind Kind[R, M, S]) Output[S] {
	out := Output[S]{MonthsAvailable: []domain.MonthID{}, Entities: []S{}}
	if len(rows) == 0 {
		return out
	}

	seen := make(map[domain.MonthID]struct{})
	byName := make(map[string]*group[M])
	var order []*group[M]

	for _, r := range rows {
		period := kind.Period(r)
		seen[period] = struct{}{}

		name := kind.Entity(r)
		g, ok := byName[name]
		if !ok {
			g = &group[M]{name: name, records: make(map[domain.MonthID]M)}
			byName[name] = g
			order = append(order, g)
		}

		rec := kind.Record(r)
		if existing, dup := g.records[period]; dup {
			rec = kind.Merge(existing, rec)
		}
		g.records[period] = rec
	}

	for p := range seen {
		out.MonthsAvailable = append(out.MonthsAvailable, p)
	}
	sort.Strings(out.MonthsAvailable)

	names := make([]string, 0, len(order))
	for _, g := range order {
		var series []M
		switch kind.Fill {
		case FillZero:
			series = make([]M, len(out.MonthsAvailable))
			for i, p := range out.MonthsAvailable {
				if rec, ok := g.records[p]; ok {
					series[i] = rec
				} else {
					series[i] = kind.Empty(p)
				}
			}
		default:
			series = make([]M, 0, len(g.records))
			for _, p := range out.MonthsAvailable {
				if rec, ok := g.records[p]; ok {
					series = append(series, rec)
				}
			}
		}

		out.Entities = append(out.Entities, kind.Summarize(g.name, series))
		names = append(names, g.name)
	}

	slugs := AssignSlugs(names)
	for i := range out.Entities {
		kind.SetSlug(&out.Entities[i], slugs[kind.Name(out.Entities[i])])
	}

	sort.SliceStable(out.Entities, func(i, j int) bool {
		ti, tj := kind.Total(out.Entities[i]), kind.Total(out.Entities[j])
		if ti != tj {
			return ti > tj
		}
		return kind.Name(out.Entities[i]) < kind.Name(out.Entities[j])
	})

	return out
}
