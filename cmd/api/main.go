package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/PratikDhanave/event-ingest-service/internal/config"
	"github.com/PratikDhanave/event-ingest-service/internal/httpserver"
	"github.com/PratikDhanave/event-ingest-service/internal/observability"
	"github.com/PratikDhanave/event-ingest-service/internal/store"
)

// main boots the service: config → storage → HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Options{
		Backend:               cfg.Storage.Backend,
		AzureConnectionString: cfg.Storage.AzureConnectionString,
		AzureMaxRetries:       cfg.Storage.MaxRetries,
		CreateContainer:       cfg.Storage.CreateContainer,
		DBURL:                 cfg.Storage.DBURL,
		FileRoot:              cfg.Storage.FileRoot,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		err = multierr.Append(err, st.Close())
	}()

	// Wait for the backend (Postgres in docker compose, Azurite locally) before
	// accepting traffic.
	if err := store.WaitReady(ctx, st, cfg.Storage.StartupTimeout, log); err != nil {
		return fmt.Errorf("storage not ready: %w", err)
	}
	log.Info("storage ready",
		"backend", cfg.Storage.Backend,
		"container", store.DefaultContainer,
		"key", store.DefaultKey,
	)

	router := httpserver.NewRouter(cfg, st, log)
	return httpserver.Run(ctx, fmt.Sprintf(":%d", cfg.Server.Port), router, log)
}
