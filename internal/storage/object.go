package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// ObjectDatasetStore keeps datasets as JSON objects named <prefix>/<kind>.json.
type ObjectDatasetStore struct {
	objects ObjectStorage
	prefix  string
}

func NewObjectDatasetStore(objects ObjectStorage, prefix string) *ObjectDatasetStore {
	return &ObjectDatasetStore{objects: objects, prefix: strings.Trim(prefix, "/")}
}

// Key returns the object key used for kind.
func (s *ObjectDatasetStore) Key(kind DatasetKind) string {
	return path.Join(s.prefix, string(kind)+".json")
}

func (s *ObjectDatasetStore) Save(ctx context.Context, kind DatasetKind, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s dataset: %w", kind, err)
	}
	if err := s.objects.UploadObject(ctx, s.Key(kind), data); err != nil {
		return fmt.Errorf("failed to store %s dataset: %w", kind, err)
	}
	return nil
}

func (s *ObjectDatasetStore) Load(ctx context.Context, kind DatasetKind, v any) error {
	data, err := s.objects.GetObject(ctx, s.Key(kind))
	if err != nil {
		return fmt.Errorf("failed to load %s dataset: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s dataset: %w", kind, err)
	}
	return nil
}

var _ DatasetStore = (*ObjectDatasetStore)(nil)
