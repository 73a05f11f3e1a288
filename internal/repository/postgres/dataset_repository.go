package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS dataset_snapshots (
	id          UUID PRIMARY KEY,
	kind        TEXT NOT NULL,
	payload     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_dataset_snapshots_kind_created
	ON dataset_snapshots (kind, created_at DESC);
`

// DatasetRepository stores generated datasets as append-only JSONB snapshots.
// The most recent snapshot of a kind is the current dataset.
type DatasetRepository struct {
	db *DB
}

func NewDatasetRepository(db *DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// EnsureSchema creates the snapshot table when missing.
func (r *DatasetRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create dataset_snapshots: %w", err)
	}
	return nil
}

// Save inserts a new snapshot.
func (r *DatasetRepository) Save(ctx context.Context, kind storage.DatasetKind, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s dataset: %w", kind, err)
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		const q = `INSERT INTO dataset_snapshots (id, kind, payload) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, q, uuid.New(), string(kind), payload); err != nil {
			return fmt.Errorf("failed to insert %s snapshot: %w", kind, err)
		}
		return nil
	})
}

// Load decodes the latest snapshot of kind into v.
func (r *DatasetRepository) Load(ctx context.Context, kind storage.DatasetKind, v any) error {
	const q = `
		SELECT payload
		FROM dataset_snapshots
		WHERE kind = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var payload []byte
	if err := r.db.GetContext(ctx, &payload, q, string(kind)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s snapshot: %w", kind, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to load %s snapshot: %w", kind, err)
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode %s snapshot: %w", kind, err)
	}
	return nil
}

var _ storage.DatasetStore = (*DatasetRepository)(nil)
