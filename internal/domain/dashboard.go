package domain

// MonthRange is an inclusive period window. An empty bound is unbounded.
type MonthRange struct {
	Start MonthID `json:"start,omitempty"`
	End   MonthID `json:"end,omitempty"`
}

// Bounded reports whether both ends of the range are set.
func (r MonthRange) Bounded() bool {
	return r.Start != "" && r.End != ""
}

// Contains reports whether period falls within the range.
func (r MonthRange) Contains(period MonthID) bool {
	if r.Start != "" && period < r.Start {
		return false
	}
	if r.End != "" && period > r.End {
		return false
	}
	return true
}

type RangeMetrics struct {
	TotalRevenue float64  `json:"totalRevenue"`
	TotalProfit  float64  `json:"totalProfit"`
	AvgMarginPct *float64 `json:"avgMarginPct"`
	HasActivity  bool     `json:"hasActivity"`
}

type SupplierRangeMetrics struct {
	TotalTurnover float64 `json:"totalTurnover"`
	TotalItems    float64 `json:"totalItems"`
	HasActivity   bool    `json:"hasActivity"`
}

type RangeTrend struct {
	Trend      Trend    `json:"trend"`
	Percentage *float64 `json:"percentage"`
}

// AggregatedMetrics summarises a group of customers over a range.
type AggregatedMetrics struct {
	TotalRevenue       float64  `json:"totalRevenue"`
	TotalProfit        float64  `json:"totalProfit"`
	AvgMarginPct       *float64 `json:"avgMarginPct"`
	ActiveCustomers    int      `json:"activeCustomers"`
	GrowingCustomers   int      `json:"growingCustomers"`
	DecliningCustomers int      `json:"decliningCustomers"`
	StableCustomers    int      `json:"stableCustomers"`
}

// CustomerQuery is the normalized form of a period query from the API.
type CustomerQuery struct {
	Range  MonthRange `json:"range"`
	Mode   FilterMode `json:"mode"`
	Search string     `json:"search,omitempty"`
}

type CustomerView struct {
	CustomerSummary
	Range      RangeMetrics `json:"range"`
	RangeTrend RangeTrend   `json:"rangeTrend"`
}

type CustomerQueryResult struct {
	MonthsAvailable []MonthID         `json:"monthsAvailable"`
	GeneratedAt     string            `json:"generatedAt"`
	Query           CustomerQuery     `json:"query"`
	Summary         AggregatedMetrics `json:"summary"`
	Customers       []CustomerView    `json:"customers"`
}

type SupplierView struct {
	SupplierSummary
	Range      SupplierRangeMetrics `json:"range"`
	RangeTrend RangeTrend           `json:"rangeTrend"`
}

type SupplierQueryResult struct {
	MonthsAvailable []MonthID      `json:"monthsAvailable"`
	GeneratedAt     string         `json:"generatedAt"`
	Query           CustomerQuery  `json:"query"`
	Suppliers       []SupplierView `json:"suppliers"`
}

// RefreshSummary is returned by a completed ingestion run.
type RefreshSummary struct {
	RunID                string       `json:"runId"`
	Pipeline             string       `json:"pipeline"`
	MonthsAvailableCount int          `json:"monthsAvailableCount"`
	EntityCount          int          `json:"entityCount"`
	GeneratedAt          string       `json:"generatedAt"`
	FilesProcessed       int          `json:"filesProcessed"`
	FilesSkipped         int          `json:"filesSkipped"`
	RowsAccepted         int          `json:"rowsAccepted"`
	RowsRejected         int          `json:"rowsRejected"`
	Diagnostics          []Diagnostic `json:"diagnostics"`
}

// Diagnostic is one problem found during ingestion. Scope is "row", "file" or "batch".
type Diagnostic struct {
	Level   string `json:"level"`
	Scope   string `json:"scope"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}
