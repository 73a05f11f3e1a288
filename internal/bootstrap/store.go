// Package bootstrap assembles the runtime dependencies shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/repository/postgres"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/storage"
	"github.com/rs/zerolog"
)

// FileStore writes datasets to the configured JSON output files.
func FileStore(cfg config.IngestConfig) *storage.FileStore {
	return storage.NewFileStore(map[storage.DatasetKind]string{
		storage.KindCustomers: cfg.CustomerOutput,
		storage.KindSuppliers: cfg.SupplierOutput,
	})
}

// MinioClient connects to the configured S3-compatible bucket.
func MinioClient(cfg config.StorageConfig) (*storage.MinioClient, error) {
	return storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	})
}

// DatasetStore builds the store selected by STORAGE_BACKEND. Remote backends
// keep the local JSON files up to date as a best-effort mirror. The returned
// func releases any connection the store holds.
func DatasetStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.DatasetStore, func(), error) {
	files := FileStore(cfg.Ingest)
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Backend)) {
	case "", "file":
		return files, noop, nil

	case "s3":
		client, err := MinioClient(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		primary := storage.NewObjectDatasetStore(client, cfg.Storage.Prefix)
		return storage.NewMirrorStore(log, primary, files), noop, nil

	case "postgres":
		db, err := postgres.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewDatasetRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return storage.NewMirrorStore(log, repo, files), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}
