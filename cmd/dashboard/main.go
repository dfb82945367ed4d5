package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/PescoJ/tracking-dashboard/internal/adapter/http"
	kafkaadapter "github.com/PescoJ/tracking-dashboard/internal/adapter/kafka"
	"github.com/PescoJ/tracking-dashboard/internal/adapter/spreadsheet"
	"github.com/PescoJ/tracking-dashboard/internal/config"
	"github.com/PescoJ/tracking-dashboard/internal/density"
	"github.com/PescoJ/tracking-dashboard/internal/domain"
	"github.com/PescoJ/tracking-dashboard/internal/observability"
	"github.com/PescoJ/tracking-dashboard/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reshaper, err := domain.NewReshaper(cfg.Schema)
	if err != nil {
		logger.Error("invalid schema", "error", err)
		os.Exit(1)
	}

	source := spreadsheet.NewSource(cfg.DataFile, cfg.DataSheet, logger)

	// Sample publication is feature-flagged via KAFKA_ENABLED.
	var (
		publisher pipeline.BatchPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publication enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka publication disabled")
	}

	p := pipeline.New(source, reshaper, publisher, logger, metrics, pipeline.Options{
		RefreshInterval: cfg.RefreshInterval,
		BatchSize:       cfg.BatchSize,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, metrics, logger, httpadapter.Options{
		DefaultBins: cfg.HeatmapBins,
		Cache:       gridCache(cfg.HeatmapCacheSize),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func gridCache(size int) *density.GridCache {
	if size <= 0 {
		return nil
	}
	return density.NewGridCache(size)
}
