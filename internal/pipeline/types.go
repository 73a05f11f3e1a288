package pipeline

import (
	"errors"
	"runtime"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/parse"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/source"
)

// Pipeline defines what a dataset kind contributes to the shared extraction flow.
type Pipeline[R any] interface {
	// Name returns the unique identifier for this pipeline
	Name() string

	// Mapping returns the semantic columns this pipeline reads
	Mapping() parse.ColumnMapping

	// GetPeriod extracts the reporting month from the filename
	GetPeriod(filename string) (domain.MonthID, bool)

	// Validate checks if the input file is acceptable for this pipeline
	Validate(inputFile string) error

	// BuildRow turns one source row into a typed candidate row. Returning
	// ErrBlankEntity marks a row that has data but no entity name.
	BuildRow(cols parse.Columns, row source.Row, period domain.MonthID) (R, error)
}

// ErrBlankEntity is returned by BuildRow for rows without a customer/supplier name.
var ErrBlankEntity = errors.New("entity name is empty")

// Config holds tunables for an Orchestrator.
type Config struct {
	Name        string
	WorkerCount int // Number of files parsed concurrently
}

// DefaultConfig returns sensible defaults
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		WorkerCount: runtime.NumCPU(),
	}
}

// FileStatus represents the outcome of processing a single file
type FileStatus string

const (
	FileStatusCompleted FileStatus = "completed"
	FileStatusSkipped   FileStatus = "skipped"
)

// FileResult is what one file contributed to a run.
type FileResult[R any] struct {
	File        string
	Period      domain.MonthID
	Status      FileStatus
	Rows        []R
	Rejected    int
	Blank       int
	Diagnostics Diagnostics
}

// Result is the outcome of one orchestrated run over a directory.
type Result[R any] struct {
	RunID       string
	Rows        []R
	Files       []FileResult[R]
	Diagnostics Diagnostics
}

// FilesProcessed counts files that contributed at least one row.
func (r *Result[R]) FilesProcessed() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == FileStatusCompleted {
			n++
		}
	}
	return n
}

// FilesSkipped counts files excluded from aggregation.
func (r *Result[R]) FilesSkipped() int {
	return len(r.Files) - r.FilesProcessed()
}

// RowsRejected counts rows dropped by parsing or validation.
func (r *Result[R]) RowsRejected() int {
	n := 0
	for _, f := range r.Files {
		n += f.Rejected
	}
	return n
}

// Progress receives file-level progress from an Orchestrator.
type Progress interface {
	Start(total int)
	Done(file string)
}
