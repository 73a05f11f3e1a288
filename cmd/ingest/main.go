package main

import (
	"os"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/petrvlcek232/techcon-growth-dashboard/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ingest",
		Usage: "Build the growth dashboard datasets from monthly exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (console or json)",
				EnvVars: []string{"LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg := config.Load()
			level, format := cfg.Log.Level, cfg.Log.Format
			if c.IsSet("log-level") {
				level = c.String("log-level")
			}
			if c.IsSet("log-format") {
				format = c.String("log-format")
			}
			logger.SetFormat(format)
			logger.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "customers",
				Usage:  "Ingest customer revenue exports",
				Flags:  ingestFlags(),
				Action: runCustomers,
			},
			{
				Name:   "suppliers",
				Usage:  "Ingest supplier turnover exports",
				Flags:  ingestFlags(),
				Action: runSuppliers,
			},
			{
				Name:  "all",
				Usage: "Ingest customers, then suppliers",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "workers", Usage: "Files parsed concurrently"},
					&cli.BoolFlag{Name: "progress", Usage: "Show a progress bar"},
				},
				Action: runAll,
			},
			syncCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Error().Err(err).Msg("ingest failed")
		os.Exit(1)
	}
}
