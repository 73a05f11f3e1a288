package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a dataset or object does not exist.
var ErrNotFound = errors.New("not found")

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the pipelines need.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// DatasetKind names one generated dataset.
type DatasetKind string

const (
	KindCustomers DatasetKind = "customers"
	KindSuppliers DatasetKind = "suppliers"
)

// DatasetStore persists generated datasets. Save fully replaces the previous
// dataset of the same kind; Load decodes the latest one into v and returns
// ErrNotFound when none was saved yet.
type DatasetStore interface {
	Save(ctx context.Context, kind DatasetKind, v any) error
	Load(ctx context.Context, kind DatasetKind, v any) error
}
