package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/api"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/bootstrap"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/cache"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/service"
	"github.com/petrvlcek232/techcon-growth-dashboard/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(cfg.Log.Level)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	log := logger.Component("server")

	store, closeStore, err := bootstrap.DatasetStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dataset store")
	}
	defer closeStore()

	queryCache, err := cache.NewQueryCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, query cache disabled")
		queryCache = cache.NewNoopQueryCache()
	}

	datasets := service.NewDatasetService(cfg.Ingest, store, queryCache, log)
	if err := datasets.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load persisted datasets")
	}

	router := api.NewRouter(&api.Services{Datasets: datasets}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
