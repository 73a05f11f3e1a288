package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	hits        int
	invalidated int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(payload, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = payload
	return nil
}

func (c *memCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[string][]byte{}
	c.invalidated++
	return nil
}

type failingStore struct{}

func (failingStore) Save(context.Context, storage.DatasetKind, any) error {
	return errors.New("disk full")
}

func (failingStore) Load(context.Context, storage.DatasetKind, any) error {
	return errors.New("disk full")
}

type countingProgress struct {
	total int
	done  int
	mu    sync.Mutex
}

func (p *countingProgress) Start(total int) { p.total = total }

func (p *countingProgress) Done(string) {
	p.mu.Lock()
	p.done++
	p.mu.Unlock()
}

func setup(t *testing.T) (config.IngestConfig, storage.DatasetStore) {
	t.Helper()
	root := t.TempDir()
	customers := filepath.Join(root, "dvur")
	require.NoError(t, os.MkdirAll(customers, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(customers, "dvur_24_01.csv"),
		[]byte("Odběratel;Obrat;Zisk\nAcme;1000;100\nBeta;200;10\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(customers, "dvur_24_02.csv"),
		[]byte("Odběratel;Obrat;Zisk\nAcme;1100;110\n"), 0o644))

	cfg := config.IngestConfig{
		CustomerDir:    customers,
		SupplierDir:    filepath.Join(root, "missing"),
		CustomerOutput: filepath.Join(root, "out", "processed.json"),
		SupplierOutput: filepath.Join(root, "out", "suppliers.json"),
		Workers:        2,
	}
	store := storage.NewFileStore(map[storage.DatasetKind]string{
		storage.KindCustomers: cfg.CustomerOutput,
		storage.KindSuppliers: cfg.SupplierOutput,
	})
	return cfg, store
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestRefreshAndQueryCustomers(t *testing.T) {
	cfg, store := setup(t)
	mc := newMemCache()
	progress := &countingProgress{}
	svc := NewDatasetService(cfg, store, mc, zerolog.Nop()).WithProgress(progress)
	svc.now = fixedClock
	ctx := context.Background()

	_, err := svc.QueryCustomers(ctx, domain.CustomerQuery{Mode: domain.ModeAll})
	assert.ErrorIs(t, err, ErrNoDataset)

	sum, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, "customers", sum.Pipeline)
	assert.Equal(t, 2, sum.MonthsAvailableCount)
	assert.Equal(t, 2, sum.EntityCount)
	assert.Equal(t, 2, sum.FilesProcessed)
	assert.Equal(t, 3, sum.RowsAccepted)
	assert.Equal(t, "2024-03-01T12:00:00Z", sum.GeneratedAt)
	assert.NotNil(t, sum.Diagnostics)
	assert.Equal(t, 1, mc.invalidated)
	assert.Equal(t, 2, progress.total)
	assert.Equal(t, 2, progress.done)

	q := domain.CustomerQuery{Mode: domain.ModeAll}
	res, err := svc.QueryCustomers(ctx, q)
	require.NoError(t, err)
	require.Len(t, res.Customers, 2)
	assert.Equal(t, "Acme", res.Customers[0].Name)
	assert.Equal(t, domain.TrendUp, res.Customers[0].RangeTrend.Trend)
	assert.Equal(t, 2300.0, res.Summary.TotalRevenue)
	assert.Equal(t, 2, res.Summary.ActiveCustomers)
	assert.Equal(t, []string{"2024-01", "2024-02"}, res.MonthsAvailable)

	again, err := svc.QueryCustomers(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, mc.hits)
	assert.Equal(t, res.Summary, again.Summary)

	growing, err := svc.QueryCustomers(ctx, domain.CustomerQuery{Mode: domain.ModeGrowingDesc, Search: "ACME"})
	require.NoError(t, err)
	require.Len(t, growing.Customers, 1)
	assert.Equal(t, 2100.0, growing.Summary.TotalRevenue)

	view, err := svc.Customer("beta", domain.MonthRange{Start: "2024-02", End: "2024-02"})
	require.NoError(t, err)
	assert.False(t, view.Range.HasActivity)

	_, err = svc.Customer("nobody", domain.MonthRange{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRestoresPersistedDataset(t *testing.T) {
	cfg, store := setup(t)
	ctx := context.Background()

	first := NewDatasetService(cfg, store, nil, zerolog.Nop())
	first.now = fixedClock
	_, err := first.Refresh(ctx)
	require.NoError(t, err)

	second := NewDatasetService(cfg, store, nil, zerolog.Nop())
	require.NoError(t, second.Load(ctx))
	require.NotNil(t, second.Customers())
	assert.Equal(t, *first.Customers(), *second.Customers())
	assert.Nil(t, second.Suppliers())

	assert.Error(t, NewDatasetService(cfg, failingStore{}, nil, zerolog.Nop()).Load(ctx))
}

func TestRefreshSuppliersMissingDir(t *testing.T) {
	cfg, store := setup(t)
	svc := NewDatasetService(cfg, store, nil, zerolog.Nop())
	svc.now = fixedClock

	sum, err := svc.RefreshSuppliers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.EntityCount)
	require.Len(t, sum.Diagnostics, 1)
	assert.Equal(t, pipeline.ScopeBatch, sum.Diagnostics[0].Scope)

	res, err := svc.QuerySuppliers(context.Background(), domain.CustomerQuery{Mode: domain.ModeAll})
	require.NoError(t, err)
	assert.NotNil(t, res.Suppliers)
	assert.Empty(t, res.Suppliers)

	_, err = svc.Supplier("makita", domain.MonthRange{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefreshPersistenceFailure(t *testing.T) {
	cfg, _ := setup(t)
	svc := NewDatasetService(cfg, failingStore{}, nil, zerolog.Nop())

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Nil(t, svc.Customers(), "a failed refresh keeps the previous dataset")
}
