package aggregate

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// Sum adds the values of f over items without float drift.
func Sum[T any](items []T, f func(T) float64) float64 {
	acc := decimal.Zero
	for _, it := range items {
		acc = acc.Add(dec(f(it)))
	}
	return acc.InexactFloat64()
}

// Add returns a+b.
func Add(a, b float64) float64 {
	return dec(a).Add(dec(b)).InexactFloat64()
}

// Sub returns a-b.
func Sub(a, b float64) float64 {
	return dec(a).Sub(dec(b)).InexactFloat64()
}

// Percent returns (last/base - 1) * 100. base must not be zero.
func Percent(base, last float64) float64 {
	b := dec(base)
	if b.IsZero() {
		return 0
	}
	return dec(last).Sub(b).Div(b).Mul(hundred).InexactFloat64()
}

// Weighted is one value with its weight.
type Weighted struct {
	Value  float64
	Weight float64
}

// WeightedAverage returns Σ(value·weight)/Σ(weight), or nil when the total
// weight is not positive.
func WeightedAverage(points []Weighted) *float64 {
	num, den := decimal.Zero, decimal.Zero
	for _, p := range points {
		w := dec(p.Weight)
		num = num.Add(dec(p.Value).Mul(w))
		den = den.Add(w)
	}
	if !den.IsPositive() {
		return nil
	}
	avg := num.Div(den).InexactFloat64()
	return &avg
}
