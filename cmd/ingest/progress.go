package main

import (
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline"
	"github.com/petrvlcek232/techcon-growth-dashboard/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// barProgress renders orchestrator progress on the terminal.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func newBarProgress() *barProgress {
	return &barProgress{}
}

func (p *barProgress) Start(total int) {
	p.bar = progressbar.Default(int64(total), "parsing")
}

func (p *barProgress) Done(file string) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(file)
	_ = p.bar.Add(1)
}

func logSummary(s *domain.RefreshSummary) *zerolog.Event {
	diags := pipeline.Diagnostics(s.Diagnostics)
	return logger.Log.Info().
		Str("run_id", s.RunID).
		Str("pipeline", s.Pipeline).
		Int("months", s.MonthsAvailableCount).
		Int("entities", s.EntityCount).
		Int("files_processed", s.FilesProcessed).
		Int("files_skipped", s.FilesSkipped).
		Int("rows", s.RowsAccepted).
		Int("rows_rejected", s.RowsRejected).
		Int("row_warnings", diags.Count(pipeline.ScopeRow)).
		Int("file_warnings", diags.Count(pipeline.ScopeFile)).
		Int("batch_warnings", diags.Count(pipeline.ScopeBatch)).
		Str("generated_at", s.GeneratedAt)
}
