package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/cache"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/metrics"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/customer"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/supplier"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/query"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var (
	// ErrNoDataset is returned by queries before the first successful refresh or load.
	ErrNoDataset = errors.New("dataset not generated yet")
	// ErrNotFound is returned when no entity has the requested slug.
	ErrNotFound = errors.New("not found")
)

// DatasetService owns the current customer and supplier datasets. Refreshes
// are serialized per kind; queries read an immutable snapshot without locking.
type DatasetService struct {
	cfg      config.IngestConfig
	store    storage.DatasetStore
	cache    cache.QueryCache
	log      zerolog.Logger
	progress pipeline.Progress
	now      func() time.Time

	customerMu sync.Mutex
	supplierMu sync.Mutex

	customers atomic.Pointer[domain.Dataset]
	suppliers atomic.Pointer[domain.SupplierDataset]
}

func NewDatasetService(cfg config.IngestConfig, store storage.DatasetStore, cacheImpl cache.QueryCache, log zerolog.Logger) *DatasetService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopQueryCache()
	}
	return &DatasetService{
		cfg:   cfg,
		store: store,
		cache: cacheImpl,
		log:   log.With().Str("component", "dataset_service").Logger(),
		now:   time.Now,
	}
}

// WithProgress reports file progress of subsequent refreshes to p.
func (s *DatasetService) WithProgress(p pipeline.Progress) *DatasetService {
	s.progress = p
	return s
}

// Load restores the last persisted datasets. Missing datasets are not an error.
func (s *DatasetService) Load(ctx context.Context) error {
	var customers domain.Dataset
	switch err := s.store.Load(ctx, storage.KindCustomers, &customers); {
	case errors.Is(err, storage.ErrNotFound):
		s.log.Info().Msg("No persisted customer dataset yet")
	case err != nil:
		return fmt.Errorf("failed to load customer dataset: %w", err)
	default:
		s.customers.Store(&customers)
	}

	var suppliers domain.SupplierDataset
	switch err := s.store.Load(ctx, storage.KindSuppliers, &suppliers); {
	case errors.Is(err, storage.ErrNotFound):
		s.log.Info().Msg("No persisted supplier dataset yet")
	case err != nil:
		return fmt.Errorf("failed to load supplier dataset: %w", err)
	default:
		s.suppliers.Store(&suppliers)
	}
	return nil
}

// Customers returns the current customer dataset, or nil.
func (s *DatasetService) Customers() *domain.Dataset { return s.customers.Load() }

// Suppliers returns the current supplier dataset, or nil.
func (s *DatasetService) Suppliers() *domain.SupplierDataset { return s.suppliers.Load() }

// Refresh re-runs customer ingestion, persists the result and swaps it in.
func (s *DatasetService) Refresh(ctx context.Context) (*domain.RefreshSummary, error) {
	s.customerMu.Lock()
	defer s.customerMu.Unlock()

	p := customer.NewPipeline()
	timer := prometheus.NewTimer(metrics.RefreshDuration.WithLabelValues(p.Name()))
	defer timer.ObserveDuration()

	res, err := run[domain.RawRow](ctx, s, p, s.cfg.CustomerDir)
	if err != nil {
		return nil, err
	}

	ds := customer.Aggregate(res.Rows, s.now())
	if err := s.store.Save(ctx, storage.KindCustomers, ds); err != nil {
		return nil, fmt.Errorf("failed to persist customer dataset: %w", err)
	}
	s.customers.Store(&ds)
	s.invalidate(ctx)

	summary := newSummary(res, p.Name(), len(ds.MonthsAvailable), len(ds.Customers), ds.GeneratedAt)
	s.logSummary(summary)
	return summary, nil
}

// RefreshSuppliers re-runs supplier ingestion, persists the result and swaps it in.
func (s *DatasetService) RefreshSuppliers(ctx context.Context) (*domain.RefreshSummary, error) {
	s.supplierMu.Lock()
	defer s.supplierMu.Unlock()

	p := supplier.NewPipeline()
	timer := prometheus.NewTimer(metrics.RefreshDuration.WithLabelValues(p.Name()))
	defer timer.ObserveDuration()

	res, err := run[domain.SupplierRawRow](ctx, s, p, s.cfg.SupplierDir)
	if err != nil {
		return nil, err
	}

	ds := supplier.Aggregate(res.Rows, s.now())
	if err := s.store.Save(ctx, storage.KindSuppliers, ds); err != nil {
		return nil, fmt.Errorf("failed to persist supplier dataset: %w", err)
	}
	s.suppliers.Store(&ds)
	s.invalidate(ctx)

	summary := newSummary(res, p.Name(), len(ds.MonthsAvailable), len(ds.Suppliers), ds.GeneratedAt)
	s.logSummary(summary)
	return summary, nil
}

func run[R any](ctx context.Context, s *DatasetService, p pipeline.Pipeline[R], dir string) (*pipeline.Result[R], error) {
	cfg := pipeline.DefaultConfig(p.Name())
	if s.cfg.Workers > 0 {
		cfg.WorkerCount = s.cfg.Workers
	}
	o := pipeline.NewOrchestrator(p, cfg, s.log)
	if s.progress != nil {
		o.WithProgress(s.progress)
	}
	res, err := o.RunDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("%s ingestion failed: %w", p.Name(), err)
	}
	return res, nil
}

func newSummary[R any](res *pipeline.Result[R], name string, months, entities int, generatedAt string) *domain.RefreshSummary {
	diags := []domain.Diagnostic(res.Diagnostics)
	if diags == nil {
		diags = []domain.Diagnostic{}
	}
	return &domain.RefreshSummary{
		RunID:                res.RunID,
		Pipeline:             name,
		MonthsAvailableCount: months,
		EntityCount:          entities,
		GeneratedAt:          generatedAt,
		FilesProcessed:       res.FilesProcessed(),
		FilesSkipped:         res.FilesSkipped(),
		RowsAccepted:         len(res.Rows),
		RowsRejected:         res.RowsRejected(),
		Diagnostics:          diags,
	}
}

func (s *DatasetService) logSummary(sum *domain.RefreshSummary) {
	s.log.Info().
		Str("run_id", sum.RunID).
		Str("pipeline", sum.Pipeline).
		Int("months", sum.MonthsAvailableCount).
		Int("entities", sum.EntityCount).
		Int("rows", sum.RowsAccepted).
		Msg("Dataset refreshed")
}

func (s *DatasetService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("query cache invalidation failed")
	}
}

// QueryCustomers filters and sorts the current customers for q and
// summarises the customers matching q.Search.
func (s *DatasetService) QueryCustomers(ctx context.Context, q domain.CustomerQuery) (*domain.CustomerQueryResult, error) {
	ds := s.customers.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}

	key := cache.BuildQueryKey(string(storage.KindCustomers), q, ds.GeneratedAt)
	var cached domain.CustomerQueryResult
	if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		s.log.Warn().Err(err).Msg("customers: cache get failed")
	}

	matched := query.Search(ds.Customers, q.Search)
	sorted := query.FilterAndSort(matched, q.Mode, q.Range)

	views := make([]domain.CustomerView, 0, len(sorted))
	for _, c := range sorted {
		views = append(views, customerView(c, q.Range))
	}

	result := &domain.CustomerQueryResult{
		MonthsAvailable: ds.MonthsAvailable,
		GeneratedAt:     ds.GeneratedAt,
		Query:           q,
		Summary:         query.ComputeAggregatedMetrics(matched, q.Range),
		Customers:       views,
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.log.Warn().Err(err).Msg("customers: cache set failed")
	}
	return result, nil
}

// Customer returns one customer with its metrics over r.
func (s *DatasetService) Customer(slug string, r domain.MonthRange) (*domain.CustomerView, error) {
	ds := s.customers.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}
	for _, c := range ds.Customers {
		if c.Slug == slug {
			view := customerView(c, r)
			return &view, nil
		}
	}
	return nil, fmt.Errorf("customer %q: %w", slug, ErrNotFound)
}

// QuerySuppliers is the supplier counterpart of QueryCustomers.
func (s *DatasetService) QuerySuppliers(ctx context.Context, q domain.CustomerQuery) (*domain.SupplierQueryResult, error) {
	ds := s.suppliers.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}

	key := cache.BuildQueryKey(string(storage.KindSuppliers), q, ds.GeneratedAt)
	var cached domain.SupplierQueryResult
	if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
		return &cached, nil
	} else if err != nil {
		s.log.Warn().Err(err).Msg("suppliers: cache get failed")
	}

	sorted := query.FilterAndSort(query.Search(ds.Suppliers, q.Search), q.Mode, q.Range)
	views := make([]domain.SupplierView, 0, len(sorted))
	for _, sp := range sorted {
		views = append(views, supplierView(sp, q.Range))
	}

	result := &domain.SupplierQueryResult{
		MonthsAvailable: ds.MonthsAvailable,
		GeneratedAt:     ds.GeneratedAt,
		Query:           q,
		Suppliers:       views,
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.log.Warn().Err(err).Msg("suppliers: cache set failed")
	}
	return result, nil
}

func (s *DatasetService) Supplier(slug string, r domain.MonthRange) (*domain.SupplierView, error) {
	ds := s.suppliers.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}
	for _, sp := range ds.Suppliers {
		if sp.Slug == slug {
			view := supplierView(sp, r)
			return &view, nil
		}
	}
	return nil, fmt.Errorf("supplier %q: %w", slug, ErrNotFound)
}

func customerView(c domain.CustomerSummary, r domain.MonthRange) domain.CustomerView {
	return domain.CustomerView{
		CustomerSummary: c,
		Range:           query.ComputeRangeMetrics(c, r),
		RangeTrend:      query.ComputeRangeTrend(c, r),
	}
}

func supplierView(sp domain.SupplierSummary, r domain.MonthRange) domain.SupplierView {
	return domain.SupplierView{
		SupplierSummary: sp,
		Range:           query.ComputeSupplierRangeMetrics(sp, r),
		RangeTrend:      query.ComputeRangeTrend(sp, r),
	}
}
