// Package pipeline wires the domain operations to their data sources: the
// Augmenter rewrites the dataset, the Forecaster estimates demand, and the
// Snapshotter publishes scheduled estimates for every city.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/order-demand/internal/domain"
	"github.com/couchcryptid/order-demand/internal/observability"
)

// EstimateSource produces one estimate per city.
type EstimateSource interface {
	EstimateAll(ctx context.Context) ([]domain.DemandEstimate, error)
}

// BatchLoader writes a snapshot of estimates to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, estimates []domain.DemandEstimate) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	maxAttempts    = 3
)

// Snapshotter runs estimate snapshots and hands them to a BatchLoader.
type Snapshotter struct {
	source  EstimateSource
	loader  BatchLoader
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// NewSnapshotter creates a Snapshotter. A nil loader computes snapshots
// without publishing them.
func NewSnapshotter(source EstimateSource, loader BatchLoader, logger *slog.Logger, metrics *observability.Metrics) *Snapshotter {
	return &Snapshotter{
		source:  source,
		loader:  loader,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a snapshot has succeeded or MarkReady was
// called, or an error describing why the service is not yet ready.
func (s *Snapshotter) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no estimate snapshot has completed yet")
	}
	return nil
}

// MarkReady flags the service ready without waiting for a snapshot.
func (s *Snapshotter) MarkReady() {
	s.ready.Store(true)
}

// RunOnce computes and publishes one snapshot. Publishing is retried with
// exponential backoff up to maxAttempts times.
func (s *Snapshotter) RunOnce(ctx context.Context) error {
	start := time.Now()

	estimates, err := s.source.EstimateAll(ctx)
	if err != nil {
		s.metrics.SnapshotRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("compute snapshot: %w", err)
	}

	if s.loader != nil && len(estimates) > 0 {
		if err := s.publish(ctx, estimates); err != nil {
			s.metrics.SnapshotRuns.WithLabelValues("error").Inc()
			return err
		}
		s.metrics.EstimatesProduced.Add(float64(len(estimates)))
	}

	s.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	s.metrics.SnapshotRuns.WithLabelValues("success").Inc()
	s.ready.Store(true)

	s.logger.Info("estimate snapshot complete", "cities", len(estimates), "duration", time.Since(start))
	return nil
}

func (s *Snapshotter) publish(ctx context.Context, estimates []domain.DemandEstimate) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = s.loader.LoadBatch(ctx, estimates); err == nil {
			return nil
		}
		s.logger.Error("publish snapshot failed",
			"error", err,
			"attempt", attempt,
			"batch_size", len(estimates),
		)
		if attempt == maxAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("publish snapshot: %w", err)
}

// Run executes RunOnce on the given cron schedule until the context is
// cancelled. Failed snapshots are logged and retried at the next tick. Run
// waits for an in-flight snapshot to finish before returning.
func (s *Snapshotter) Run(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(schedule, func() {
		if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("estimate snapshot failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}

	s.logger.Info("snapshot scheduler started", "schedule", schedule)
	c.Start()
	<-ctx.Done()

	s.logger.Info("snapshot scheduler stopping", "reason", ctx.Err())
	<-c.Stop().Done()
	return nil
}
