package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/forecast-client/internal/adapter/darksky"
	"github.com/couchcryptid/forecast-client/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/forecast-client/internal/adapter/kafka"
	"github.com/couchcryptid/forecast-client/internal/adapter/postgres"
	"github.com/couchcryptid/forecast-client/internal/config"
	"github.com/couchcryptid/forecast-client/internal/observability"
	"github.com/couchcryptid/forecast-client/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
)

type closer interface {
	Name() string
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	opts, err := darksky.ParseOptions(cfg.Lang, cfg.Units, cfg.Exclude, cfg.Extend)
	if err != nil {
		logger.Error("invalid forecast options", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Source chain: cache in front of the rate limiter so hits never wait.
	client := darksky.NewClient(cfg.APIKey, cfg.BaseURL, opts, cfg.Timeout, metrics, logger)
	limited := darksky.NewRateLimitedSource(client, cfg.RateLimitRPS, cfg.RateLimitBurst)
	source := darksky.NewCachedSource(limited, cfg.CacheSize, cfg.CacheTTL, clock, metrics, logger)
	logger.Info("forecast source configured",
		"base_url", cfg.BaseURL,
		"lang", opts.Lang,
		"units", opts.Units,
		"cache_size", cfg.CacheSize,
		"cache_ttl", cfg.CacheTTL,
		"rate_limit_rps", cfg.RateLimitRPS,
	)

	var (
		sinks    []pipeline.Sink
		closers  []closer
		checkers []sharedobs.ReadinessChecker
	)
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		closers = append(closers, writer)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}
	if cfg.DatabaseURL != "" {
		store, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := store.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, store)
		closers = append(closers, store)
		checkers = append(checkers, store)
		logger.Info("postgres sink enabled")
	}
	if len(sinks) == 0 {
		logger.Info("no sinks configured, serving forecasts over http only")
	}

	p := pipeline.New(source, sinks, cfg.Locations, cfg.PollInterval, clock, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.AllReady(append([]sharedobs.ReadinessChecker{p}, checkers...)...), p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start poller.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("sink close error", "sink", c.Name(), "error", err)
		}
	}

	logger.Info("shutdown complete")
}
