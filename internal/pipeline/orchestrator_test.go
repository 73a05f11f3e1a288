package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/parse"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/source"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockRow struct {
	Name   string  `json:"name" validate:"required"`
	Qty    float64 `json:"qty" validate:"gte=0"`
	Period string  `json:"period" validate:"monthid"`
}

type stockPipeline struct{}

func (stockPipeline) Name() string { return "stock" }

func (stockPipeline) Mapping() parse.ColumnMapping {
	return parse.ColumnMapping{
		{Name: "name", Patterns: []string{"název", "name"}, Required: true},
		{Name: "qty", Patterns: []string{"množství", "qty"}, Required: true},
	}
}

func (stockPipeline) GetPeriod(filename string) (domain.MonthID, bool) {
	return parse.ExtractPeriod(filename)
}

func (stockPipeline) Validate(string) error { return nil }

func (stockPipeline) BuildRow(cols parse.Columns, row source.Row, period domain.MonthID) (stockRow, error) {
	name := row.Cell(cols.Index("name"))
	if name == "" {
		return stockRow{}, ErrBlankEntity
	}
	return stockRow{
		Name:   name,
		Qty:    parse.ParseNumber(row.Cell(cols.Index("qty"))),
		Period: period,
	}, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type recordingProgress struct {
	mu    sync.Mutex
	total int
	done  []string
}

func (p *recordingProgress) Start(total int) { p.total = total }

func (p *recordingProgress) Done(file string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = append(p.done, file)
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sklad_2024-03.csv",
		"Název;Množství\n"+
			"Šrouby;1 200\n"+
			";\n"+
			";5\n"+
			"Matky;-3\n"+
			"Podložky;40,5\n")

	res := Extract[stockRow](context.Background(), stockPipeline{}, NewRowValidator(), path)

	assert.Equal(t, FileStatusCompleted, res.Status)
	assert.Equal(t, "2024-03", res.Period)
	assert.Equal(t, 1, res.Blank)
	assert.Equal(t, 2, res.Rejected)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, stockRow{Name: "Šrouby", Qty: 1200, Period: "2024-03"}, res.Rows[0])
	assert.Equal(t, 40.5, res.Rows[1].Qty)

	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, ScopeRow, res.Diagnostics[0].Scope)
	assert.Equal(t, 4, res.Diagnostics[0].Line)
	assert.Contains(t, res.Diagnostics[1].Message, "qty must be greater than or equal to 0")
	assert.Equal(t, 5, res.Diagnostics[1].Line)
}

func TestExtractFileLevelSkips(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		message string
	}{
		{"no period in name", "sklad.csv", "Název;Množství\nA;1\n", "period"},
		{"missing column", "sklad_2024-03.csv", "Název;Cena\nA;1\n", "missing required columns qty"},
		{"no valid rows", "sklad_2024-04.csv", "Název;Množství\nA;-1\n", "no valid rows"},
		{"empty file", "sklad_2024-05.csv", "", "failed to read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			res := Extract[stockRow](context.Background(), stockPipeline{}, NewRowValidator(), path)

			assert.Equal(t, FileStatusSkipped, res.Status)
			assert.Empty(t, res.Rows)
			require.NotEmpty(t, res.Diagnostics)
			last := res.Diagnostics[len(res.Diagnostics)-1]
			assert.Equal(t, ScopeFile, last.Scope)
			assert.Contains(t, last.Message, tt.message)
		})
	}
}

func TestOrchestratorRunDirMergesInListingOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sklad_2024-02.csv", "name,qty\nB,2\n")
	writeFile(t, dir, "sklad_2024-01.csv", "name,qty\nA,1\n")
	writeFile(t, dir, "sklad_2024-03.csv", "name,qty\nC,3\n")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "~$sklad_2024-01.xlsx", "lock")

	progress := &recordingProgress{}
	o := NewOrchestrator[stockRow](stockPipeline{}, Config{WorkerCount: 3}, zerolog.Nop()).WithProgress(progress)

	res, err := o.RunDir(context.Background(), dir)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{res.Rows[0].Name, res.Rows[1].Name, res.Rows[2].Name})
	assert.Equal(t, 3, res.FilesProcessed())
	assert.Equal(t, 0, res.FilesSkipped())
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 3, progress.total)
	assert.Len(t, progress.done, 3)
}

func TestOrchestratorBatchDiagnostics(t *testing.T) {
	o := NewOrchestrator[stockRow](stockPipeline{}, DefaultConfig("stock"), zerolog.Nop())

	t.Run("missing directory", func(t *testing.T) {
		res, err := o.RunDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, res.Rows)
		assert.Equal(t, 1, res.Diagnostics.Count(ScopeBatch))
	})

	t.Run("empty directory", func(t *testing.T) {
		res, err := o.RunDir(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, 1, res.Diagnostics.Count(ScopeBatch))
	})

	t.Run("only invalid files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "sklad.csv", "name,qty\nA,1\n")
		res, err := o.RunDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, res.FilesSkipped())
		assert.Equal(t, 1, res.Diagnostics.Count(ScopeFile))
		assert.Equal(t, 1, res.Diagnostics.Count(ScopeBatch))
	})
}

func TestOrchestratorCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sklad_2024-01.csv", "name,qty\nA,1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewOrchestrator[stockRow](stockPipeline{}, Config{WorkerCount: 1}, zerolog.Nop())
	_, err := o.RunDir(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}
