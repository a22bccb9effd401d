package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"databrowser/internal/api"
	"databrowser/internal/config"
	"databrowser/internal/engine"
	"databrowser/internal/logging"
	"databrowser/internal/models"
)

func main() {
	// 1. Config + logging
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	logger, closeLogs := logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		SeqURL: cfg.Log.SeqURL,
	})
	defer closeLogs()

	// 2. Dataset handle (nothing read yet) + HTTP surface.
	// Requests that arrive before the load finishes wait on it.
	dataset := engine.NewDataset(cfg.Data.Path, models.Schema{
		YearColumn: cfg.Data.YearColumn,
		CodeColumn: cfg.Data.CodeColumn,
	}, logger)

	h := api.NewHandler(dataset, api.Options{
		DefaultCountries: cfg.Filter.DefaultCountries,
		Title:            cfg.Page.Title,
		Intro:            cfg.Page.Intro,
		Logger:           logger,
	})
	e := api.NewServer(h, logger, cfg.Metrics.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Load in background
	go dataset.Warm(ctx)

	// 4. Start server
	go func() {
		logger.Info("server ready", "addr", cfg.Server.Addr(), "data", cfg.Data.Path)
		if err := e.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
