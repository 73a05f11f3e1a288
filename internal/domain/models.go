// internal/domain/models.go
package domain

// MonthID is a calendar month in the canonical "YYYY-MM" form. Lexicographic order
// equals chronological order, so plain string comparison is used everywhere.
type MonthID = string

// RawRow is one validated customer line extracted from a monthly export.
type RawRow struct {
	Customer  string   `json:"customer" validate:"required"`
	Revenue   float64  `json:"revenue" validate:"gte=0"`
	Profit    float64  `json:"profit"`
	MarginPct *float64 `json:"marginPct" validate:"omitempty,gte=0,lte=100"`
	Period    MonthID  `json:"period" validate:"monthid"`
}

// SupplierRawRow is one validated supplier line extracted from a monthly export.
type SupplierRawRow struct {
	Supplier string  `json:"supplier" validate:"required"`
	Turnover float64 `json:"turnover" validate:"gte=0"`
	Items    float64 `json:"items" validate:"gte=0"`
	Period   MonthID `json:"period" validate:"monthid"`
}

// MonthlyRecord is a customer's figures for one period. MarginPct is nil when
// no margin was reported for the period (zero-filled months included).
type MonthlyRecord struct {
	Period    MonthID  `json:"period"`
	Revenue   float64  `json:"revenue"`
	Profit    float64  `json:"profit"`
	MarginPct *float64 `json:"marginPct"`
}

type CustomerSummary struct {
	Slug            string          `json:"slug"`
	Name            string          `json:"name"`
	FirstMonth      *MonthID        `json:"firstMonth"`
	LastMonth       *MonthID        `json:"lastMonth"`
	Months          []MonthlyRecord `json:"months"`
	TotalRevenue    float64         `json:"totalRevenue"`
	TotalProfit     float64         `json:"totalProfit"`
	AvgMarginPct    *float64        `json:"avgMarginPct"`
	RevenueDeltaAbs float64         `json:"revenueDeltaAbs"`
	RevenueDeltaPct *float64        `json:"revenueDeltaPct"`
	ProfitDeltaAbs  float64         `json:"profitDeltaAbs"`
	ProfitDeltaPct  *float64        `json:"profitDeltaPct"`
	RevenueTrend    Trend           `json:"revenueTrend"`
	ProfitTrend     Trend           `json:"profitTrend"`
}

// Dataset is the immutable output of one customer ingestion run.
type Dataset struct {
	MonthsAvailable []MonthID         `json:"monthsAvailable"`
	Customers       []CustomerSummary `json:"customers"`
	GeneratedAt     string            `json:"generatedAt"`
}

type SupplierMonthly struct {
	Period   MonthID `json:"period"`
	Turnover float64 `json:"turnover"`
	Items    float64 `json:"items"`
}

type SupplierSummary struct {
	Slug             string            `json:"slug"`
	Name             string            `json:"name"`
	Abbreviation     string            `json:"abbreviation"`
	FirstMonth       *MonthID          `json:"firstMonth"`
	LastMonth        *MonthID          `json:"lastMonth"`
	Months           []SupplierMonthly `json:"months"`
	TotalTurnover    float64           `json:"totalTurnover"`
	TotalItems       float64           `json:"totalItems"`
	AvgItemsPerMonth float64           `json:"avgItemsPerMonth"`
	TurnoverDeltaAbs float64           `json:"turnoverDeltaAbs"`
	TurnoverDeltaPct *float64          `json:"turnoverDeltaPct"`
	ItemsDeltaAbs    float64           `json:"itemsDeltaAbs"`
	ItemsDeltaPct    *float64          `json:"itemsDeltaPct"`
	TurnoverTrend    Trend             `json:"turnoverTrend"`
	ItemsTrend       Trend             `json:"itemsTrend"`
}

// SupplierDataset is the immutable output of one supplier ingestion run.
type SupplierDataset struct {
	MonthsAvailable []MonthID         `json:"monthsAvailable"`
	Suppliers       []SupplierSummary `json:"suppliers"`
	GeneratedAt     string            `json:"generatedAt"`
}

// ActivityPoint is the per-period value used to decide whether an entity was
// active: revenue for customers, turnover for suppliers.
type ActivityPoint struct {
	Period MonthID
	Value  float64
}

func (c CustomerSummary) EntityName() string { return c.Name }

func (c CustomerSummary) Activity() []ActivityPoint {
	points := make([]ActivityPoint, len(c.Months))
	for i, m := range c.Months {
		points[i] = ActivityPoint{Period: m.Period, Value: m.Revenue}
	}
	return points
}

func (s SupplierSummary) EntityName() string { return s.Name }

func (s SupplierSummary) Activity() []ActivityPoint {
	points := make([]ActivityPoint, len(s.Months))
	for i, m := range s.Months {
		points[i] = ActivityPoint{Period: m.Period, Value: m.Turnover}
	}
	return points
}
