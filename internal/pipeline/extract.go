package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/source"
)

// Extract runs one file through period detection, the format adapter, column
// mapping and row validation. Problems are recorded as diagnostics; a file
// that yields no valid rows comes back with FileStatusSkipped.
func Extract[R any](ctx context.Context, p Pipeline[R], v *RowValidator, path string) FileResult[R] {
	name := filepath.Base(path)
	res := FileResult[R]{File: name, Status: FileStatusSkipped}

	// 1) Validate the file itself
	if err := p.Validate(path); err != nil {
		res.Diagnostics.filef(LevelWarn, name, "file rejected: %v", err)
		return res
	}

	// 2) Period from filename
	period, ok := p.GetPeriod(name)
	if !ok {
		res.Diagnostics.filef(LevelWarn, name, "cannot derive a YYYY-MM period from file name")
		return res
	}
	res.Period = period

	// 3) Read through the format adapter
	table, err := source.Read(ctx, path)
	if err != nil {
		res.Diagnostics.filef(LevelError, name, "failed to read file: %v", err)
		return res
	}

	// 4) Map headers to fields
	cols := p.Mapping().Map(table.Headers)
	if err := cols.Err(table.Headers); err != nil {
		res.Diagnostics.filef(LevelWarn, name, "%v", err)
		return res
	}

	// 5) Build and validate rows
	for _, row := range table.Rows {
		if row.Blank() {
			res.Blank++
			continue
		}

		candidate, err := p.BuildRow(cols, row, period)
		if err != nil {
			res.Rejected++
			if errors.Is(err, ErrBlankEntity) {
				res.Diagnostics.rowf(name, row.Line, "row skipped: %v", err)
			} else {
				res.Diagnostics.rowf(name, row.Line, "row not parseable: %v", err)
			}
			continue
		}

		outcome := Check(v, candidate, row.Line)
		if !outcome.OK() {
			res.Rejected++
			res.Diagnostics.rowf(name, row.Line, "row rejected: %s", strings.Join(outcome.Problems, "; "))
			continue
		}
		res.Rows = append(res.Rows, outcome.Row)
	}

	if len(res.Rows) == 0 {
		res.Diagnostics.filef(LevelWarn, name, "no valid rows in file (%d rejected, %d blank)", res.Rejected, res.Blank)
		return res
	}

	res.Status = FileStatusCompleted
	return res
}
