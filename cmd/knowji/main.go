package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/knowji/internal/api"
	"github.com/MikeSquared-Agency/knowji/internal/completion"
	"github.com/MikeSquared-Agency/knowji/internal/config"
	"github.com/MikeSquared-Agency/knowji/internal/content"
	"github.com/MikeSquared-Agency/knowji/internal/events"
	"github.com/MikeSquared-Agency/knowji/internal/gemini"
	"github.com/MikeSquared-Agency/knowji/internal/pipeline"
	"github.com/MikeSquared-Agency/knowji/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("knowji starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected")

	// Gemini
	if cfg.GeminiAPIKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	gem := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	gem.SetBaseURL(cfg.GeminiBaseURL)

	policy := completion.DefaultPolicy()
	policy.MaxRetries = cfg.CompletionMaxRetries
	policy.InitialDelay = cfg.CompletionRetryDelay
	llm := completion.New(gem, policy, slog.Default())
	slog.Info("gemini client ready", "model", cfg.GeminiModel, "max_attempts", llm.MaxAttempts())

	// Content sources
	normalizer, err := content.NewNormalizer(
		content.NewTimedTextFetcher("en", cfg.FetchTimeout),
		content.NewHTTPArticleFetcher(cfg.FetchTimeout),
		cfg.ContentCacheSize,
		slog.Default(),
	)
	if err != nil {
		slog.Error("failed to build content normalizer", "error", err)
		os.Exit(1)
	}

	// NATS (optional; knowji works without it, just no events)
	var publisher api.Publisher
	if cfg.NatsURL != "" {
		bus, err := events.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Warn("NATS unavailable, running without events", "error", err)
		} else {
			defer bus.Close(5 * time.Second)
			publisher = bus
			slog.Info("NATS connected", "url", cfg.NatsURL)
		}
	}

	proc := pipeline.New(normalizer, llm, publisher, slog.Default())

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, proc, db, publisher, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	slog.Info("knowji ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown incomplete", "error", err)
	}
	cancel()
	slog.Info("knowji stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
