package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/source"
	"github.com/rs/zerolog"
)

// Remote is the part of Service a Syncer needs.
type Remote interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	Download(ctx context.Context, f *File, w io.Writer) error
}

// SyncResult lists the local files touched by a sync.
type SyncResult struct {
	Downloaded []string
	Unchanged  []string
}

// Syncer mirrors the spreadsheet exports of a Drive folder into a local directory.
type Syncer struct {
	remote Remote
	log    zerolog.Logger
}

func NewSyncer(remote Remote, log zerolog.Logger) *Syncer {
	return &Syncer{remote: remote, log: log}
}

// Sync downloads supported files from folderID into destDir. Files whose
// local size matches the remote size are left alone; native sheets have no
// size and are always exported.
func (s *Syncer) Sync(ctx context.Context, folderID, destDir string) (*SyncResult, error) {
	if destDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	files, err := s.remote.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	res := &SyncResult{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(f.LocalName())
		if source.KindOf(name) == source.KindUnknown {
			continue
		}
		localPath := filepath.Join(destDir, name)

		if !f.IsGoogleSheet() && f.Size > 0 {
			if info, err := os.Stat(localPath); err == nil && info.Size() == f.Size {
				res.Unchanged = append(res.Unchanged, localPath)
				continue
			}
		}

		if err := s.download(ctx, f, localPath); err != nil {
			return nil, err
		}
		s.log.Info().Str("file", name).Int64("size", f.Size).Msg("Downloaded file from Drive")
		res.Downloaded = append(res.Downloaded, localPath)
	}

	return res, nil
}

func (s *Syncer) download(ctx context.Context, f *File, localPath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(localPath), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create local file for %s: %w", f.Name, err)
	}
	defer os.Remove(tmp.Name())

	if err := s.remote.Download(ctx, f, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Name, err)
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", f.Name, err)
	}
	return nil
}
