package pipeline

import (
	"fmt"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/rs/zerolog"
)

const (
	LevelWarn  = "warn"
	LevelError = "error"

	ScopeRow   = "row"
	ScopeFile  = "file"
	ScopeBatch = "batch"
)

// Diagnostics collects ingestion problems so callers can inspect them instead
// of scraping log output.
type Diagnostics []domain.Diagnostic

func (d *Diagnostics) rowf(file string, line int, format string, args ...any) {
	*d = append(*d, domain.Diagnostic{
		Level:   LevelWarn,
		Scope:   ScopeRow,
		File:    file,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

func (d *Diagnostics) filef(level, file string, format string, args ...any) {
	*d = append(*d, domain.Diagnostic{
		Level:   level,
		Scope:   ScopeFile,
		File:    file,
		Message: fmt.Sprintf(format, args...),
	})
}

func (d *Diagnostics) batchf(format string, args ...any) {
	*d = append(*d, domain.Diagnostic{
		Level:   LevelWarn,
		Scope:   ScopeBatch,
		Message: fmt.Sprintf(format, args...),
	})
}

// Count returns the number of diagnostics with the given scope.
func (d Diagnostics) Count(scope string) int {
	n := 0
	for _, diag := range d {
		if diag.Scope == scope {
			n++
		}
	}
	return n
}

// Log writes every diagnostic to log at its level.
func (d Diagnostics) Log(log zerolog.Logger) {
	for _, diag := range d {
		event := log.Warn()
		if diag.Level == LevelError {
			event = log.Error()
		}
		if diag.File != "" {
			event = event.Str("file", diag.File)
		}
		if diag.Line > 0 {
			event = event.Int("line", diag.Line)
		}
		event.Str("scope", diag.Scope).Msg(diag.Message)
	}
}
