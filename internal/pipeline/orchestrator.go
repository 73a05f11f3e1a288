package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/metrics"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/source"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Orchestrator coordinates running a Pipeline over the files of one input
// directory. Files are parsed concurrently but merged in listing order, so the
// result does not depend on scheduling.
type Orchestrator[R any] struct {
	p        Pipeline[R]
	cfg      Config
	validate *RowValidator
	log      zerolog.Logger
	progress Progress
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator[R any](p Pipeline[R], cfg Config, log zerolog.Logger) *Orchestrator[R] {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.Name == "" {
		cfg.Name = p.Name()
	}
	return &Orchestrator[R]{
		p:        p,
		cfg:      cfg,
		validate: NewRowValidator(),
		log:      log.With().Str("pipeline", cfg.Name).Logger(),
	}
}

// WithProgress attaches a progress reporter.
func (o *Orchestrator[R]) WithProgress(p Progress) *Orchestrator[R] {
	o.progress = p
	return o
}

// ListFiles returns the supported input files in dir, sorted by name.
// Office lock files ("~$...") and hidden files are ignored.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}
		if source.KindOf(name) == source.KindUnknown {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// RunDir lists dir and runs every supported file through the pipeline.
// A missing directory is reported as a batch diagnostic, not an error.
func (o *Orchestrator[R]) RunDir(ctx context.Context, dir string) (*Result[R], error) {
	files, err := ListFiles(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res := &Result[R]{RunID: uuid.NewString()}
			res.Diagnostics.batchf("input directory %s does not exist", dir)
			res.Diagnostics.Log(o.log)
			return res, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	return o.Run(ctx, files)
}

// Run parses files with at most cfg.WorkerCount in flight. Only context
// cancellation makes it return an error.
func (o *Orchestrator[R]) Run(ctx context.Context, files []string) (*Result[R], error) {
	res := &Result[R]{RunID: uuid.NewString()}
	log := o.log.With().Str("run_id", res.RunID).Logger()

	if len(files) == 0 {
		res.Diagnostics.batchf("no input files found")
		res.Diagnostics.Log(log)
		return res, nil
	}

	log.Info().Int("files", len(files)).Int("workers", o.cfg.WorkerCount).Msg("Starting ingestion run")
	if o.progress != nil {
		o.progress.Start(len(files))
	}

	slots := make([]FileResult[R], len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.WorkerCount)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = Extract(gctx, o.p, o.validate, path)
			if o.progress != nil {
				o.progress.Done(slots[i].File)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingestion run %s cancelled: %w", res.RunID, err)
	}

	for _, fr := range slots {
		res.Files = append(res.Files, fr)
		res.Rows = append(res.Rows, fr.Rows...)
		res.Diagnostics = append(res.Diagnostics, fr.Diagnostics...)

		metrics.ObserveFile(o.cfg.Name, string(fr.Status), len(fr.Rows), fr.Rejected)
		log.Debug().
			Str("file", fr.File).
			Str("period", fr.Period).
			Str("status", string(fr.Status)).
			Int("rows", len(fr.Rows)).
			Int("rejected", fr.Rejected).
			Msg("File processed")
	}

	if len(res.Rows) == 0 {
		res.Diagnostics.batchf("no valid rows across %d files", len(files))
	}

	res.Diagnostics.Log(log)
	log.Info().
		Int("files_processed", res.FilesProcessed()).
		Int("files_skipped", res.FilesSkipped()).
		Int("rows", len(res.Rows)).
		Int("rows_rejected", res.RowsRejected()).
		Msg("Ingestion run finished")

	return res, nil
}
