package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memObjects struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemObjects() *memObjects { return &memObjects{data: map[string][]byte{}} }

func (m *memObjects) ListObjects(_ context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ObjectInfo
	for k, v := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memObjects) DownloadObject(ctx context.Context, key, dest string) error {
	data, err := m.GetObject(ctx, key)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func (m *memObjects) UploadObject(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memObjects) GetObject(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

type failingStore struct{}

func (failingStore) Save(context.Context, DatasetKind, any) error { return errors.New("boom") }
func (failingStore) Load(context.Context, DatasetKind, any) error { return errors.New("boom") }

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "public", "data", "processed.json")
	store := NewFileStore(map[DatasetKind]string{KindCustomers: out})
	ctx := context.Background()

	var got payload
	err := store.Load(ctx, KindCustomers, &got)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, KindCustomers, payload{Name: "first", Count: 1}))
	require.NoError(t, store.Save(ctx, KindCustomers, payload{Name: "second", Count: 2}))

	require.NoError(t, store.Load(ctx, KindCustomers, &got))
	assert.Equal(t, payload{Name: "second", Count: 2}, got)

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")

	assert.Error(t, store.Save(ctx, KindSuppliers, payload{}))
}

func TestFileStoreCorruptFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "suppliers.json")
	require.NoError(t, os.WriteFile(out, []byte("{"), 0o644))

	var got payload
	err := NewFileStore(map[DatasetKind]string{KindSuppliers: out}).Load(context.Background(), KindSuppliers, &got)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestObjectDatasetStore(t *testing.T) {
	objects := newMemObjects()
	store := NewObjectDatasetStore(objects, "/datasets/")
	ctx := context.Background()

	assert.Equal(t, "datasets/suppliers.json", store.Key(KindSuppliers))

	var got payload
	assert.ErrorIs(t, store.Load(ctx, KindSuppliers, &got), ErrNotFound)

	require.NoError(t, store.Save(ctx, KindSuppliers, payload{Name: "s", Count: 3}))
	require.NoError(t, store.Load(ctx, KindSuppliers, &got))
	assert.Equal(t, payload{Name: "s", Count: 3}, got)

	listed, err := objects.ListObjects(ctx, "datasets/")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "datasets/suppliers.json", listed[0].Key)
}

func TestMirrorStore(t *testing.T) {
	ctx := context.Background()
	primary := NewObjectDatasetStore(newMemObjects(), "")
	mirror := NewObjectDatasetStore(newMemObjects(), "backup")

	store := NewMirrorStore(zerolog.Nop(), primary, failingStore{}, mirror)
	require.NoError(t, store.Save(ctx, KindCustomers, payload{Name: "c"}))

	var got payload
	require.NoError(t, mirror.Load(ctx, KindCustomers, &got))
	assert.Equal(t, "c", got.Name)

	failing := NewMirrorStore(zerolog.Nop(), failingStore{}, mirror)
	assert.Error(t, failing.Save(ctx, KindCustomers, payload{}))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("a/b.JSON"))
	assert.Equal(t, "application/octet-stream", contentType("a/b"))
}

func TestSyncPrefix(t *testing.T) {
	ctx := context.Background()
	objects := newMemObjects()
	require.NoError(t, objects.UploadObject(ctx, "inputs/dvur/dvur_24_01.xlsx", []byte("xlsx")))
	require.NoError(t, objects.UploadObject(ctx, "inputs/dvur/readme.txt", []byte("txt")))
	require.NoError(t, objects.UploadObject(ctx, "other/dvur_24_02.xlsx", []byte("nope")))

	dest := t.TempDir()
	accept := func(name string) bool { return strings.HasSuffix(name, ".xlsx") }

	written, err := SyncPrefix(ctx, objects, "inputs/", dest, accept, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dest, "dvur_24_01.xlsx")}, written)

	written, err = SyncPrefix(ctx, objects, "inputs/", dest, accept, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, written)
}
