package storage

import (
	"context"

	"github.com/rs/zerolog"
)

// MirrorStore saves to a primary store and then copies to best-effort
// mirrors. Loads only read the primary.
type MirrorStore struct {
	primary DatasetStore
	mirrors []DatasetStore
	log     zerolog.Logger
}

func NewMirrorStore(log zerolog.Logger, primary DatasetStore, mirrors ...DatasetStore) *MirrorStore {
	return &MirrorStore{primary: primary, mirrors: mirrors, log: log}
}

func (s *MirrorStore) Save(ctx context.Context, kind DatasetKind, v any) error {
	if err := s.primary.Save(ctx, kind, v); err != nil {
		return err
	}
	for i, m := range s.mirrors {
		if err := m.Save(ctx, kind, v); err != nil {
			s.log.Warn().Err(err).Int("mirror", i).Str("kind", string(kind)).Msg("Failed to mirror dataset")
		}
	}
	return nil
}

func (s *MirrorStore) Load(ctx context.Context, kind DatasetKind, v any) error {
	return s.primary.Load(ctx, kind, v)
}

var _ DatasetStore = (*MirrorStore)(nil)
