package main

import (
	"fmt"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/aggregate"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/bootstrap"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/parse"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/service"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/storage"
	"github.com/petrvlcek232/techcon-growth-dashboard/pkg/logger"
	"github.com/urfave/cli/v2"
)

func ingestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "dir", Usage: "Directory with the monthly exports"},
		&cli.StringFlag{Name: "out", Usage: "Write the dataset JSON to this file instead of the configured store"},
		&cli.IntFlag{Name: "workers", Usage: "Files parsed concurrently"},
		&cli.BoolFlag{Name: "progress", Usage: "Show a progress bar"},
	}
}

// newService wires a DatasetService from config and command flags. kind
// tells which of --dir/--out applies.
func newService(c *cli.Context, kind storage.DatasetKind) (*service.DatasetService, func(), error) {
	cfg := *config.Load()

	if c.IsSet("workers") {
		cfg.Ingest.Workers = c.Int("workers")
	}
	if c.IsSet("dir") {
		if kind == storage.KindSuppliers {
			cfg.Ingest.SupplierDir = c.String("dir")
		} else {
			cfg.Ingest.CustomerDir = c.String("dir")
		}
	}

	log := logger.Component("ingest")

	var (
		store   storage.DatasetStore
		closeFn = func() {}
	)
	if c.IsSet("out") {
		if kind == storage.KindSuppliers {
			cfg.Ingest.SupplierOutput = c.String("out")
		} else {
			cfg.Ingest.CustomerOutput = c.String("out")
		}
		store = bootstrap.FileStore(cfg.Ingest)
	} else {
		var err error
		store, closeFn, err = bootstrap.DatasetStore(c.Context, &cfg, log)
		if err != nil {
			return nil, nil, err
		}
	}

	svc := service.NewDatasetService(cfg.Ingest, store, nil, log)
	if c.Bool("progress") {
		svc.WithProgress(newBarProgress())
	}
	return svc, closeFn, nil
}

func runCustomers(c *cli.Context) error {
	svc, closeFn, err := newService(c, storage.KindCustomers)
	if err != nil {
		return err
	}
	defer closeFn()
	return ingestCustomers(c, svc)
}

func runSuppliers(c *cli.Context) error {
	svc, closeFn, err := newService(c, storage.KindSuppliers)
	if err != nil {
		return err
	}
	defer closeFn()
	return ingestSuppliers(c, svc)
}

func runAll(c *cli.Context) error {
	svc, closeFn, err := newService(c, storage.KindCustomers)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := ingestCustomers(c, svc); err != nil {
		return fmt.Errorf("customer ingestion: %w", err)
	}
	if err := ingestSuppliers(c, svc); err != nil {
		return fmt.Errorf("supplier ingestion: %w", err)
	}
	return nil
}

func ingestCustomers(c *cli.Context, svc *service.DatasetService) error {
	summary, err := svc.Refresh(c.Context)
	if err != nil {
		return err
	}

	ds := svc.Customers()
	revenue := aggregate.Sum(ds.Customers, func(s domain.CustomerSummary) float64 { return s.TotalRevenue })
	profit := aggregate.Sum(ds.Customers, func(s domain.CustomerSummary) float64 { return s.TotalProfit })
	logSummary(summary).
		Str("total_revenue", parse.FormatCZ(revenue, 0)).
		Str("total_profit", parse.FormatCZ(profit, 0)).
		Msg("Customer dataset written")
	return nil
}

func ingestSuppliers(c *cli.Context, svc *service.DatasetService) error {
	summary, err := svc.RefreshSuppliers(c.Context)
	if err != nil {
		return err
	}

	ds := svc.Suppliers()
	turnover := aggregate.Sum(ds.Suppliers, func(s domain.SupplierSummary) float64 { return s.TotalTurnover })
	logSummary(summary).
		Str("total_turnover", parse.FormatCZ(turnover, 0)).
		Msg("Supplier dataset written")
	return nil
}
