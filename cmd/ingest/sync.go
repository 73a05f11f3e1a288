package main

import (
	"fmt"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/bootstrap"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/drive"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/source"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/storage"
	"github.com/petrvlcek232/techcon-growth-dashboard/pkg/logger"
	"github.com/urfave/cli/v2"
)

func syncCommand() *cli.Command {
	suppliersFlag := func() cli.Flag {
		return &cli.BoolFlag{Name: "suppliers", Usage: "Use the supplier folder and input directory as defaults"}
	}
	destFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "dest", Usage: "Local directory to download into"}
	}

	return &cli.Command{
		Name:  "sync",
		Usage: "Download monthly exports into the local input directories",
		Subcommands: []*cli.Command{
			{
				Name:  "drive",
				Usage: "Download from a Google Drive folder",
				Flags: []cli.Flag{
					suppliersFlag(),
					destFlag(),
					&cli.StringFlag{Name: "folder", Usage: "Drive folder ID"},
					&cli.StringFlag{Name: "path", Usage: "Drive folder path, resolved from My Drive"},
					&cli.StringFlag{
						Name:    "credentials",
						Usage:   "Service account JSON file",
						EnvVars: []string{"DRIVE_CREDENTIALS_FILE"},
					},
				},
				Action: syncDrive,
			},
			{
				Name:  "s3",
				Usage: "Download from the configured S3 bucket",
				Flags: []cli.Flag{
					suppliersFlag(),
					destFlag(),
					&cli.StringFlag{Name: "prefix", Usage: "Object key prefix", Required: true},
				},
				Action: syncS3,
			},
		},
	}
}

func syncDest(c *cli.Context, cfg *config.Config) string {
	if c.IsSet("dest") {
		return c.String("dest")
	}
	if c.Bool("suppliers") {
		return cfg.Ingest.SupplierDir
	}
	return cfg.Ingest.CustomerDir
}

func syncDrive(c *cli.Context) error {
	cfg := config.Load()
	log := logger.Component("sync")

	credentials := cfg.Drive.CredentialsFile
	if c.IsSet("credentials") {
		credentials = c.String("credentials")
	}
	if credentials == "" {
		return fmt.Errorf("drive credentials file is required")
	}

	srv, err := drive.NewServiceFromFile(c.Context, credentials)
	if err != nil {
		return err
	}

	folder := c.String("folder")
	switch {
	case folder != "":
	case c.IsSet("path"):
		if folder, err = srv.FindFolderByPath(c.Context, c.String("path")); err != nil {
			return err
		}
	case c.Bool("suppliers"):
		folder = cfg.Drive.SupplierFolder
	default:
		folder = cfg.Drive.CustomerFolder
	}
	if folder == "" {
		return fmt.Errorf("drive folder is required (--folder, --path or DRIVE_*_FOLDER)")
	}

	dest := syncDest(c, cfg)
	if err := config.EnsureDir(dest); err != nil {
		return err
	}
	res, err := drive.NewSyncer(srv, log).Sync(c.Context, folder, dest)
	if err != nil {
		return err
	}

	log.Info().
		Str("folder", folder).
		Str("dest", dest).
		Int("downloaded", len(res.Downloaded)).
		Int("unchanged", len(res.Unchanged)).
		Msg("Drive sync finished")
	return nil
}

func syncS3(c *cli.Context) error {
	cfg := config.Load()
	log := logger.Component("sync")

	client, err := bootstrap.MinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	accept := func(name string) bool { return source.KindOf(name) != source.KindUnknown }
	dest := syncDest(c, cfg)
	if err := config.EnsureDir(dest); err != nil {
		return err
	}
	written, err := storage.SyncPrefix(c.Context, client, c.String("prefix"), dest, accept, log)
	if err != nil {
		return err
	}

	log.Info().
		Str("prefix", c.String("prefix")).
		Str("dest", dest).
		Int("downloaded", len(written)).
		Msg("S3 sync finished")
	return nil
}
