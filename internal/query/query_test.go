package query

import (
	"errors"
	"testing"
	"time"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

// dataset builds customers from revenue series starting at 2024-01. Profit is
// a tenth of revenue and every month reports a margin of 20.
func dataset(series map[string][]float64) domain.Dataset {
	var rows []domain.RawRow
	for name, values := range series {
		for i, v := range values {
			rows = append(rows, domain.RawRow{
				Customer:  name,
				Revenue:   v,
				Profit:    v / 10,
				MarginPct: ptr(20),
				Period:    domain.FormatMonthID(2024, i+1),
			})
		}
	}
	return customer.Aggregate(rows, time.Unix(0, 0))
}

func find(t *testing.T, ds domain.Dataset, name string) domain.CustomerSummary {
	t.Helper()
	for _, c := range ds.Customers {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("customer %s not found", name)
	return domain.CustomerSummary{}
}

func names[E Entity](entities []E) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.EntityName()
	}
	return out
}

func TestComputeRangeMetrics(t *testing.T) {
	ds := dataset(map[string][]float64{"Acme": {100, 0, 300, 400}})
	c := find(t, ds, "Acme")

	m := ComputeRangeMetrics(c, domain.MonthRange{Start: "2024-02", End: "2024-03"})
	assert.Equal(t, 300.0, m.TotalRevenue)
	assert.Equal(t, 30.0, m.TotalProfit)
	require.NotNil(t, m.AvgMarginPct)
	assert.Equal(t, 20.0, *m.AvgMarginPct)
	assert.True(t, m.HasActivity)

	m = ComputeRangeMetrics(c, domain.MonthRange{Start: "2024-02", End: "2024-02"})
	assert.False(t, m.HasActivity)
	assert.Nil(t, m.AvgMarginPct)

	m = ComputeRangeMetrics(c, domain.MonthRange{})
	assert.Equal(t, 800.0, m.TotalRevenue)

	m = ComputeRangeMetrics(c, domain.MonthRange{Start: "2024-03"})
	assert.Equal(t, 700.0, m.TotalRevenue)
}

func TestComputeRangeTrend(t *testing.T) {
	ds := dataset(map[string][]float64{
		"Grow":    {1000, 0, 1100},
		"Single":  {0, 500, 0},
		"Shrink":  {1000, 900, 800},
		"Steady":  {1000, 1000, 1000},
		"Dormant": {1000, 0, 0, 0},
	})

	tests := []struct {
		name  string
		r     domain.MonthRange
		trend domain.Trend
		pct   *float64
	}{
		{"Grow", domain.MonthRange{}, domain.TrendUp, ptr(10)},
		{"Single", domain.MonthRange{}, domain.TrendFlat, nil},
		{"Shrink", domain.MonthRange{}, domain.TrendDown, ptr(-20)},
		{"Shrink", domain.MonthRange{Start: "2024-02", End: "2024-03"}, domain.TrendDown, ptr(-100.0 / 9)},
		{"Shrink", domain.MonthRange{Start: "2024-03", End: "2024-03"}, domain.TrendFlat, nil},
		{"Steady", domain.MonthRange{}, domain.TrendFlat, ptr(0)},
		{"Dormant", domain.MonthRange{}, domain.TrendFlat, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name+" "+tt.r.Start+"-"+tt.r.End, func(t *testing.T) {
			got := ComputeRangeTrend(find(t, ds, tt.name), tt.r)
			assert.Equal(t, tt.trend, got.Trend)
			if tt.pct == nil {
				assert.Nil(t, got.Percentage)
				return
			}
			require.NotNil(t, got.Percentage)
			assert.InDelta(t, *tt.pct, *got.Percentage, 1e-9)
		})
	}
}

func TestComputeRangeTrendHalfOpenRangeUsesLifetime(t *testing.T) {
	ds := dataset(map[string][]float64{"Grow": {1000, 500, 2000}})
	c := find(t, ds, "Grow")

	got := ComputeRangeTrend(c, domain.MonthRange{Start: "2024-02"})
	require.NotNil(t, got.Percentage)
	assert.InDelta(t, 100.0, *got.Percentage, 1e-9)
}

// Build-time trends use ±5%, range filtering uses ±0.1%. Both are kept as
// shipped; which one the dashboard should show is still an open question.
func TestDualThresholds(t *testing.T) {
	ds := dataset(map[string][]float64{"Slow": {1000, 1000, 1005, 1030}})
	c := find(t, ds, "Slow")

	// +3% over the lifetime stays below the ingestion threshold
	assert.Equal(t, domain.TrendFlat, c.RevenueTrend)
	assert.Equal(t, domain.TrendUp, ComputeRangeTrend(c, domain.MonthRange{}).Trend)

	// +0.5% inside the range is enough for the filter
	got := ComputeRangeTrend(c, domain.MonthRange{Start: "2024-02", End: "2024-03"})
	assert.Equal(t, domain.TrendUp, got.Trend)
	require.NotNil(t, got.Percentage)
	assert.InDelta(t, 0.5, *got.Percentage, 1e-9)

	// +0.05% is still flat
	ds = dataset(map[string][]float64{"Flat": {10000, 10005}})
	assert.Equal(t, domain.TrendFlat, ComputeRangeTrend(find(t, ds, "Flat"), domain.MonthRange{}).Trend)
}

func TestFilterAndSort(t *testing.T) {
	ds := dataset(map[string][]float64{
		"Alfa":   {100, 150},
		"Beta":   {100, 300},
		"Gama":   {1000, 500},
		"Delta":  {1000, 900},
		"Epsilo": {500, 500},
		"Zeta":   {0, 0, 10},
	})
	full := domain.MonthRange{Start: "2024-01", End: "2024-02"}

	tests := []struct {
		mode domain.FilterMode
		want []string
	}{
		{domain.ModeAll, []string{"Delta", "Gama", "Epsilo", "Beta", "Alfa"}},
		{domain.ModeGrowingDesc, []string{"Beta", "Alfa"}},
		{domain.ModeGrowingAsc, []string{"Alfa", "Beta"}},
		{domain.ModeDecliningDesc, []string{"Gama", "Delta"}},
		{domain.ModeDecliningAsc, []string{"Delta", "Gama"}},
		{domain.ModeNameAsc, []string{"Alfa", "Beta", "Delta", "Epsilo", "Gama"}},
		{domain.ModeNameDesc, []string{"Gama", "Epsilo", "Delta", "Beta", "Alfa"}},
		{domain.FilterMode("bogus"), []string{"Delta", "Gama", "Epsilo", "Beta", "Alfa"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilterAndSort(ds.Customers, tt.mode, full)))
		})
	}
}

func TestFilterAndSortCzechCollation(t *testing.T) {
	ds := dataset(map[string][]float64{
		"Dům":   {1},
		"Chata": {1},
		"Hora":  {1},
		"Čedok": {1},
		"Cyril": {1},
	})
	got := names(FilterAndSort(ds.Customers, domain.ModeNameAsc, domain.MonthRange{}))
	assert.Equal(t, []string{"Cyril", "Čedok", "Dům", "Hora", "Chata"}, got)
}

func TestFilterAndSortSuppliers(t *testing.T) {
	suppliers := []domain.SupplierSummary{
		{Name: "A", Months: []domain.SupplierMonthly{{Period: "2024-01", Turnover: 100}, {Period: "2024-02", Turnover: 50}}},
		{Name: "B", Months: []domain.SupplierMonthly{{Period: "2024-01", Turnover: 100}, {Period: "2024-02", Turnover: 200}}},
		{Name: "C", Months: []domain.SupplierMonthly{{Period: "2024-01", Turnover: 0}}},
	}
	assert.Equal(t, []string{"B"}, names(FilterAndSort(suppliers, domain.ModeGrowingDesc, domain.MonthRange{})))
	assert.Equal(t, []string{"B", "A"}, names(FilterAndSort(suppliers, domain.ModeAll, domain.MonthRange{})))
}

func TestParseModeAndRange(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeAll, mode)

	mode, err = ParseMode("Declining-Desc")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDecliningDesc, mode)

	_, err = ParseMode("fastest")
	assert.True(t, errors.Is(err, ErrUnknownMode))

	r, err := ParseRange("2024-01", "")
	require.NoError(t, err)
	assert.False(t, r.Bounded())

	_, err = ParseRange("2024-13", "")
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = ParseRange("2024-05", "2024-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestComputeAggregatedMetrics(t *testing.T) {
	ds := dataset(map[string][]float64{
		"Up":       {100, 200},
		"Down":     {200, 100},
		"Flat":     {100, 100},
		"Inactive": {0, 0, 50},
	})
	r := domain.MonthRange{Start: "2024-01", End: "2024-02"}

	got := ComputeAggregatedMetrics(ds.Customers, r)
	assert.Equal(t, 800.0, got.TotalRevenue)
	assert.Equal(t, 80.0, got.TotalProfit)
	require.NotNil(t, got.AvgMarginPct)
	assert.Equal(t, 20.0, *got.AvgMarginPct)
	assert.Equal(t, 3, got.ActiveCustomers)
	assert.Equal(t, 1, got.GrowingCustomers)
	assert.Equal(t, 1, got.DecliningCustomers)
	assert.Equal(t, 1, got.StableCustomers)

	empty := ComputeAggregatedMetrics(nil, r)
	assert.Nil(t, empty.AvgMarginPct)
	assert.Zero(t, empty.ActiveCustomers)
}

func TestSearch(t *testing.T) {
	ds := dataset(map[string][]float64{
		"Železářství Novák": {1},
		"Nováková Jana":     {1},
		"Acme":              {1},
	})

	got := names(Search(ds.Customers, "  NOVAK "))
	assert.ElementsMatch(t, []string{"Železářství Novák", "Nováková Jana"}, got)
	assert.Len(t, Search(ds.Customers, ""), 3)
	assert.Empty(t, Search(ds.Customers, "xyz"))
}
