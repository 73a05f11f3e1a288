// Package supplier ingests monthly supplier turnover exports.
package supplier

import (
	"fmt"
	"path/filepath"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/parse"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/source"
)

const (
	fieldSupplier = "supplier"
	fieldTurnover = "turnover"
	fieldItems    = "items"
)

var columnMapping = parse.ColumnMapping{
	{
		Name:     fieldSupplier,
		Patterns: []string{"dodavatel", "supplier", "firma", "název", "nazev", "zkratka"},
		Required: true,
	},
	{
		Name:     fieldTurnover,
		Patterns: []string{"obrat", "turnover", "tržby", "trzby", "částka", "castka", "suma"},
		Required: true,
	},
	{
		Name:     fieldItems,
		Patterns: []string{"položky", "polozky", "items", "ks", "počet", "pocet", "množství", "mnozstvi"},
	},
}

// Pipeline implements pipeline.Pipeline for supplier turnover exports.
type Pipeline struct{}

// NewPipeline creates a supplier pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) Name() string {
	return "suppliers"
}

func (p *Pipeline) Mapping() parse.ColumnMapping {
	return columnMapping
}

func (p *Pipeline) GetPeriod(filename string) (domain.MonthID, bool) {
	return parse.ExtractPeriod(filename)
}

// Validate accepts spreadsheet workbooks only.
func (p *Pipeline) Validate(inputFile string) error {
	if source.KindOf(inputFile) != source.KindSpreadsheet {
		return fmt.Errorf("supplier exports must be spreadsheets, got %q", filepath.Ext(inputFile))
	}
	return nil
}

func (p *Pipeline) BuildRow(cols parse.Columns, row source.Row, period domain.MonthID) (domain.SupplierRawRow, error) {
	name := row.Cell(cols.Index(fieldSupplier))
	if name == "" {
		return domain.SupplierRawRow{}, pipeline.ErrBlankEntity
	}

	out := domain.SupplierRawRow{
		Supplier: name,
		Turnover: parse.ParseNumber(row.Cell(cols.Index(fieldTurnover))),
		Period:   period,
	}
	if cols.Has(fieldItems) {
		out.Items = parse.ParseNumber(row.Cell(cols.Index(fieldItems)))
	}
	return out, nil
}
