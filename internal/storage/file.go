package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps each dataset kind as a JSON file on local disk.
type FileStore struct {
	paths map[DatasetKind]string
}

// NewFileStore maps dataset kinds to output paths.
func NewFileStore(paths map[DatasetKind]string) *FileStore {
	return &FileStore{paths: paths}
}

func (s *FileStore) path(kind DatasetKind) (string, error) {
	p, ok := s.paths[kind]
	if !ok || p == "" {
		return "", fmt.Errorf("no output path configured for %s", kind)
	}
	return p, nil
}

// Save writes v atomically: the JSON goes to a temp file in the target
// directory which is then renamed over the previous dataset.
func (s *FileStore) Save(ctx context.Context, kind DatasetKind, v any) error {
	path, err := s.path(kind)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s dataset: %w", kind, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed creating temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed replacing %s: %w", path, err)
	}
	return nil
}

// Load decodes the dataset file into v.
func (s *FileStore) Load(ctx context.Context, kind DatasetKind, v any) error {
	path, err := s.path(kind)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s dataset at %s: %w", kind, path, ErrNotFound)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

var _ DatasetStore = (*FileStore)(nil)
