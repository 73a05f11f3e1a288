package query

import (
	"errors"
	"fmt"
	"sort"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrUnknownMode  = errors.New("unknown filter mode")
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidRange = errors.New("range start is after range end")
)

// ParseMode validates a mode label coming from a caller.
func ParseMode(label string) (domain.FilterMode, error) {
	mode, ok := domain.ParseFilterMode(label)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, label)
	}
	return mode, nil
}

// ParseRange validates optional YYYY-MM bounds.
func ParseRange(start, end string) (domain.MonthRange, error) {
	for _, m := range []string{start, end} {
		if m != "" && !domain.IsMonthID(m) {
			return domain.MonthRange{}, fmt.Errorf("%w: %q", ErrInvalidMonth, m)
		}
	}
	if start != "" && end != "" && start > end {
		return domain.MonthRange{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return domain.MonthRange{Start: start, End: end}, nil
}

type scored[E Entity] struct {
	entity   E
	activity float64
	trend    domain.RangeTrend
}

func (s scored[E]) pct() float64 {
	if s.trend.Percentage == nil {
		return 0
	}
	return *s.trend.Percentage
}

// FilterAndSort drops entities without activity in r, applies the trend
// filter of mode and orders the rest. Unknown modes behave like ModeAll.
func FilterAndSort[E Entity](entities []E, mode domain.FilterMode, r domain.MonthRange) []E {
	items := make([]scored[E], 0, len(entities))
	for _, e := range entities {
		activity := rangeActivity(e, r)
		if activity <= 0 {
			continue
		}
		items = append(items, scored[E]{entity: e, activity: activity, trend: ComputeRangeTrend(e, r)})
	}

	keep := func(t domain.Trend) {
		filtered := items[:0]
		for _, it := range items {
			if it.trend.Trend == t {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	var less func(a, b scored[E]) bool
	switch mode {
	case domain.ModeGrowingDesc:
		keep(domain.TrendUp)
		less = func(a, b scored[E]) bool { return a.pct() > b.pct() }
	case domain.ModeGrowingAsc:
		keep(domain.TrendUp)
		less = func(a, b scored[E]) bool { return a.pct() < b.pct() }
	case domain.ModeDecliningDesc:
		keep(domain.TrendDown)
		less = func(a, b scored[E]) bool { return a.pct() < b.pct() }
	case domain.ModeDecliningAsc:
		keep(domain.TrendDown)
		less = func(a, b scored[E]) bool { return a.pct() > b.pct() }
	case domain.ModeNameAsc, domain.ModeNameDesc:
		// collate.Collator is not safe for concurrent use
		col := collate.New(language.Czech)
		sign := 1
		if mode == domain.ModeNameDesc {
			sign = -1
		}
		less = func(a, b scored[E]) bool {
			return sign*col.CompareString(a.entity.EntityName(), b.entity.EntityName()) < 0
		}
	default:
		less = func(a, b scored[E]) bool { return a.activity > b.activity }
	}

	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })

	out := make([]E, len(items))
	for i, it := range items {
		out[i] = it.entity
	}
	return out
}
