// Command demand serves weather-conditioned order estimates over HTTP and
// publishes a scheduled snapshot of every city's estimate to Kafka.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/order-demand/internal/adapter/csvstore"
	httpadapter "github.com/couchcryptid/order-demand/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/order-demand/internal/adapter/kafka"
	"github.com/couchcryptid/order-demand/internal/adapter/openweather"
	"github.com/couchcryptid/order-demand/internal/config"
	"github.com/couchcryptid/order-demand/internal/domain"
	"github.com/couchcryptid/order-demand/internal/observability"
	"github.com/couchcryptid/order-demand/internal/pipeline"
)

// scheduleOff disables the snapshot scheduler.
const scheduleOff = "off"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store := csvstore.New(cfg.DataPath, logger)
	provider := openweather.FromConfig(cfg, metrics, logger)
	// Cron snapshots and HTTP requests share one source.
	rng := domain.NewLockedRand(domain.SeededRand(cfg.WeatherFallbackSeed))

	forecaster := pipeline.NewForecaster(store, provider, rng, cfg.WeatherTimeout, logger, metrics)

	var writer *kafkaadapter.Writer
	var loader pipeline.BatchLoader
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loader = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaEstimateTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	snapshots := pipeline.NewSnapshotter(forecaster, loader, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, snapshots, forecaster, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start snapshot scheduler. The first snapshot runs at startup so
	// readiness does not wait for the first cron tick.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if cfg.EstimateSchedule == scheduleOff {
			logger.Info("snapshot scheduler disabled")
			snapshots.MarkReady()
			return
		}
		if err := snapshots.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Error("initial estimate snapshot failed", "error", err)
		}
		if err := snapshots.Run(ctx, cfg.EstimateSchedule); err != nil {
			logger.Error("snapshot scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("snapshot scheduler did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
