package aggregate

import (
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
)

// TrendPolicy classifies a Change. Percentages are compared inclusively.
type TrendPolicy struct {
	Up   float64
	Down float64

	// Fallback classifies changes without a percentage by direction:
	// UP when growing from a zero base, DOWN when shrinking from a positive one.
	Fallback bool
}

var (
	// BuildTrend is applied to customers at ingestion time.
	BuildTrend = TrendPolicy{Up: 5, Down: -5, Fallback: true}

	// SupplierTrend is applied to suppliers at ingestion time.
	SupplierTrend = TrendPolicy{Up: 5, Down: -5}
)

// Classify returns the trend of c.
func (p TrendPolicy) Classify(c Change) domain.Trend {
	if c.Pct == nil {
		if !p.Fallback {
			return domain.TrendFlat
		}
		switch {
		case c.Base == 0 && c.Abs > 0:
			return domain.TrendUp
		case c.Base > 0 && c.Abs < 0:
			return domain.TrendDown
		default:
			return domain.TrendFlat
		}
	}

	switch {
	case *c.Pct >= p.Up:
		return domain.TrendUp
	case *c.Pct <= p.Down:
		return domain.TrendDown
	default:
		return domain.TrendFlat
	}
}

// BaseRule decides whether a percentage can be derived from a base value.
type BaseRule func(base float64) bool

var (
	PositiveBase BaseRule = func(base float64) bool { return base > 0 }
	NonZeroBase  BaseRule = func(base float64) bool { return base != 0 }
)

// Change is the movement of one metric between two months.
type Change struct {
	Base float64
	Abs  float64
	Pct  *float64
}

// Measure builds the Change from base to last. When spans is false (no two
// distinct months to compare) only Base is kept.
func Measure(base, last float64, spans bool, rule BaseRule) Change {
	c := Change{Base: base}
	if !spans {
		return c
	}
	c.Abs = Sub(last, base)
	if rule(base) {
		pct := Percent(base, last)
		c.Pct = &pct
	}
	return c
}

// Window returns the indexes of the first and last point with a positive
// value. ok is false when there is none.
func Window(points []domain.ActivityPoint) (first, last int, ok bool) {
	first, last = -1, -1
	for i, p := range points {
		if p.Value > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last, first >= 0
}
