package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/device-ops/warranty-cache/internal/config"
	"github.com/device-ops/warranty-cache/internal/events"
	httpapi "github.com/device-ops/warranty-cache/internal/http"
	"github.com/device-ops/warranty-cache/internal/logging"
	"github.com/device-ops/warranty-cache/internal/service"
	"github.com/device-ops/warranty-cache/internal/storage"
	"github.com/device-ops/warranty-cache/internal/upstream"
	"github.com/device-ops/warranty-cache/internal/upstream/dell"
	"github.com/device-ops/warranty-cache/internal/upstream/microsoft"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.EventLogPath)
	if err != nil {
		os.Stderr.WriteString("failed to open event log: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	apiKey, err := config.LoadAPIKey(cfg.APIKeyFile)
	if err != nil {
		logger.Error("api key unreadable, refusing to serve", "path", cfg.APIKeyFile, "err", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DBDir(), 0o755); err != nil {
		logger.Error("failed to create db directory", "err", err)
		os.Exit(1)
	}

	repo, err := storage.New(ctx, cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "err", err)
		os.Exit(1)
	}
	defer repo.Close()

	fetchers := map[upstream.Source]upstream.Fetcher{
		upstream.SourceDell:      dell.NewClient(cfg.DellBaseURL, apiKey),
		upstream.SourceMicrosoft: microsoft.NewExport(cfg.ExportPath),
	}

	hub := events.NewHub()
	svc := service.New(repo, fetchers, hub, logger.With("component", "lookup"))
	api := httpapi.New(svc, hub, logger.With("component", "http"))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", httpServer.Addr)
	if err := httpapi.RunServer(ctx, httpServer, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server terminated with error", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
