package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
)

// SyncPrefix downloads every object under prefix into destDir, flattening keys
// to their base name. Objects whose local copy already has the same size are
// skipped. It returns the local paths that were written.
func SyncPrefix(ctx context.Context, objects ObjectStorage, prefix, destDir string, accept func(name string) bool, log zerolog.Logger) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	listed, err := objects.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, obj := range listed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := path.Base(obj.Key)
		if name == "" || name == "." || name == "/" || (accept != nil && !accept(name)) {
			continue
		}

		local := filepath.Join(destDir, name)
		if info, err := os.Stat(local); err == nil && info.Size() == obj.Size {
			log.Debug().Str("key", obj.Key).Msg("Object unchanged, skipping")
			continue
		}

		if err := objects.DownloadObject(ctx, obj.Key, local); err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", obj.Key, err)
		}
		log.Info().Str("key", obj.Key).Int64("size", obj.Size).Msg("Downloaded object")
		written = append(written, local)
	}
	return written, nil
}
