// Package customer ingests monthly customer revenue exports.
package customer

import (
	"fmt"
	"path/filepath"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/parse"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/source"
)

const (
	fieldCustomer = "customer"
	fieldRevenue  = "revenue"
	fieldProfit   = "profit"
	fieldMargin   = "marginPct"
)

// Columns recognised in customer exports. Order matters: the revenue patterns
// include "bez dph" and must be tried before profit.
var columnMapping = parse.ColumnMapping{
	{
		Name:     fieldCustomer,
		Patterns: []string{"odběratel", "odberatel", "customer", "zakaznik", "zákazník"},
		Required: true,
	},
	{
		Name: fieldRevenue,
		Patterns: []string{
			"obrat výdej zboží bez dph", "obrat vydej zbozi bez dph", "obrat", "revenue",
			"tržby", "trzby", "bez dph", "bez_dph", "obrat/výdej", "obrat/vydej",
		},
		Required: true,
	},
	{
		Name:     fieldProfit,
		Patterns: []string{"zisk", "profit", "výsledek", "vysledek", "zisk výdej", "zisk vydej"},
	},
	{
		Name: fieldMargin,
		Patterns: []string{
			"marže %", "marze %", "marže", "marze", "margin", "margin %", "margin%",
			"marže/výdej", "marze/vydej",
		},
	},
}

// Pipeline implements pipeline.Pipeline for customer revenue exports.
type Pipeline struct{}

// NewPipeline creates a customer pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Name returns the unique identifier of this pipeline.
func (p *Pipeline) Name() string {
	return "customers"
}

func (p *Pipeline) Mapping() parse.ColumnMapping {
	return columnMapping
}

// GetPeriod extracts the reporting month from the export's file name.
func (p *Pipeline) GetPeriod(filename string) (domain.MonthID, bool) {
	return parse.ExtractPeriod(filename)
}

// Validate accepts spreadsheets and delimited text exports.
func (p *Pipeline) Validate(inputFile string) error {
	if source.KindOf(inputFile) == source.KindUnknown {
		return fmt.Errorf("unsupported file type %q", filepath.Ext(inputFile))
	}
	return nil
}

// BuildRow maps one source line to a RawRow. Missing optional columns give a
// zero profit and a nil margin; a margin cell without a number also gives nil.
func (p *Pipeline) BuildRow(cols parse.Columns, row source.Row, period domain.MonthID) (domain.RawRow, error) {
	name := row.Cell(cols.Index(fieldCustomer))
	if name == "" {
		return domain.RawRow{}, pipeline.ErrBlankEntity
	}

	out := domain.RawRow{
		Customer: name,
		Revenue:  parse.ParseNumber(row.Cell(cols.Index(fieldRevenue))),
		Period:   period,
	}
	if cols.Has(fieldProfit) {
		out.Profit = parse.ParseNumber(row.Cell(cols.Index(fieldProfit)))
	}
	if cols.Has(fieldMargin) {
		if margin, ok := parse.ParseOptionalNumber(row.Cell(cols.Index(fieldMargin))); ok {
			out.MarginPct = &margin
		}
	}
	return out, nil
}
