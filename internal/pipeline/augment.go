package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/order-demand/internal/domain"
	"github.com/couchcryptid/order-demand/internal/observability"
)

// RecordLoader reads the full order dataset.
type RecordLoader interface {
	Load(ctx context.Context) ([]domain.OrderRecord, error)
}

// RecordSaver replaces the order dataset atomically.
type RecordSaver interface {
	Save(ctx context.Context, records []domain.OrderRecord) error
}

// AugmentResult reports the row counts of one augmentation run.
type AugmentResult struct {
	Original  int
	Generated int
	Total     int
	Tiers     map[domain.SampleTier]int
}

// Augmenter loads the dataset, grows it to a target size with synthetic rows,
// and saves it back.
type Augmenter struct {
	loader  RecordLoader
	saver   RecordSaver
	rng     domain.Rand
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAugmenter creates an Augmenter. The loader and saver normally wrap the
// same file.
func NewAugmenter(loader RecordLoader, saver RecordSaver, rng domain.Rand, logger *slog.Logger, metrics *observability.Metrics) *Augmenter {
	return &Augmenter{
		loader:  loader,
		saver:   saver,
		rng:     rng,
		logger:  logger,
		metrics: metrics,
	}
}

// Run augments the dataset to targetTotal rows. When the dataset already has
// at least targetTotal rows nothing is written.
func (a *Augmenter) Run(ctx context.Context, targetTotal int) (AugmentResult, error) {
	records, err := a.loader.Load(ctx)
	if err != nil {
		a.metrics.AugmentRuns.WithLabelValues("error").Inc()
		return AugmentResult{}, err
	}
	a.metrics.RecordsLoaded.Add(float64(len(records)))

	combined, stats, err := domain.AugmentDetailed(records, targetTotal, a.rng)
	if err != nil {
		a.metrics.AugmentRuns.WithLabelValues("error").Inc()
		return AugmentResult{}, err
	}

	result := AugmentResult{
		Original:  stats.Original,
		Generated: stats.Generated,
		Total:     len(combined),
		Tiers:     stats.Tiers,
	}

	if stats.Generated == 0 {
		a.logger.Info("dataset already at target, nothing to do",
			"rows", stats.Original,
			"target", targetTotal,
		)
		a.metrics.AugmentRuns.WithLabelValues("noop").Inc()
		return result, nil
	}

	if err := a.saver.Save(ctx, combined); err != nil {
		a.metrics.AugmentRuns.WithLabelValues("error").Inc()
		return AugmentResult{}, fmt.Errorf("save augmented dataset: %w", err)
	}

	a.metrics.RecordsGenerated.Add(float64(stats.Generated))
	for tier, n := range stats.Tiers {
		a.metrics.SampleTiers.WithLabelValues(tier.String()).Add(float64(n))
	}
	a.metrics.AugmentRuns.WithLabelValues("augmented").Inc()

	a.logger.Info("dataset augmented",
		"original", result.Original,
		"generated", result.Generated,
		"total", result.Total,
		"stratum_refs", stats.Tiers[domain.TierStratum],
		"city_refs", stats.Tiers[domain.TierCity],
		"global_refs", stats.Tiers[domain.TierGlobal],
	)
	return result, nil
}
