package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/markdoc/internal/api"
	"github.com/dgallion1/markdoc/internal/config"
	"github.com/dgallion1/markdoc/internal/pipeline"
	"github.com/dgallion1/markdoc/internal/stats"
	"github.com/dustin/go-humanize"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := newLogger(cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := pipeline.NewOutputCache(cfg.RenderCacheTTL)
	go cache.Run(ctx, time.Minute)

	latency := stats.NewLatencyStats(cfg.StatsWindow)

	srv := api.NewServer(cache, latency, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting markdoc",
		"port", cfg.Port,
		"auth", cfg.APIKey != "",
		"max_input", humanize.IBytes(uint64(cfg.MaxInputBytes)),
		"max_upload", humanize.IBytes(uint64(cfg.MaxUploadBytes)),
		"batch_concurrency", cfg.BatchConcurrency,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newLogger(format string) *slog.Logger {
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
