// Command epwd runs the EPW parsing service: an HTTP API that parses
// uploaded EnergyPlus Weather files, with optional Postgres archiving and
// Kafka summary publishing.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/niprotogeros/epw-visualizer/internal/adapter/httpapi"
	kafkaadapter "github.com/niprotogeros/epw-visualizer/internal/adapter/kafka"
	"github.com/niprotogeros/epw-visualizer/internal/adapter/parsecache"
	"github.com/niprotogeros/epw-visualizer/internal/adapter/postgres"
	"github.com/niprotogeros/epw-visualizer/internal/config"
	"github.com/niprotogeros/epw-visualizer/internal/observability"
	"github.com/niprotogeros/epw-visualizer/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the Postgres archive (feature-flagged via DATABASE_URL / ARCHIVE_ENABLED).
	var archiver pipeline.Archiver
	var store *postgres.Store
	if cfg.ArchiveEnabled {
		store, err = postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure postgres schema", "error", err)
			os.Exit(1)
		}
		archiver = store
		metrics.ArchiveEnabled.Set(1)
		logger.Info("postgres archiving enabled")
	} else {
		logger.Info("postgres archiving disabled")
	}

	// Initialize the Kafka summary publisher (feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED).
	var publisher pipeline.SummaryPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		metrics.PublishEnabled.Set(1)
		logger.Info("kafka summary publishing enabled", "topic", cfg.KafkaSummaryTopic)
	} else {
		logger.Info("kafka summary publishing disabled")
	}

	p := pipeline.New(logger, metrics, cfg.UnifiedYear, archiver, publisher)
	processor := parsecache.New(p, cfg.ParseCacheSize, metrics)

	ready := httpapi.ReadyFunc(func(ctx context.Context) error {
		if store != nil {
			return store.CheckReadiness(ctx)
		}
		return nil
	})

	srv := httpapi.NewServer(cfg.HTTPAddr, processor, ready, logger, cfg.MaxUploadBytes)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("postgres close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
