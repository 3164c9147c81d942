// Command augment grows the order dataset to a target row count with
// synthetic records and rewrites the file in place.
//
// Usage:
//
//	go run ./cmd/augment -data data/zomato_orders.csv -target 100 -seed 42
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/order-demand/internal/adapter/csvstore"
	"github.com/couchcryptid/order-demand/internal/config"
	"github.com/couchcryptid/order-demand/internal/domain"
	"github.com/couchcryptid/order-demand/internal/observability"
	"github.com/couchcryptid/order-demand/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dataPath := flag.String("data", cfg.DataPath, "path to the order CSV")
	target := flag.Int("target", cfg.TargetTotal, "desired total row count")
	seed := flag.Uint64("seed", cfg.RandomSeed, "random seed (0 for time-seeded)")
	flag.Parse()

	logger := observability.NewCLILogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *dataPath, *target, *seed, logger); err != nil {
		logger.Error("augmentation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dataPath string, target int, seed uint64, logger *slog.Logger) error {
	if target < 0 {
		return fmt.Errorf("target must not be negative, got %d", target)
	}

	store := csvstore.New(dataPath, logger)
	a := pipeline.NewAugmenter(store, store, domain.SeededRand(seed), logger, observability.NewMetrics())

	result, err := a.Run(ctx, target)
	if err != nil {
		return err
	}

	fmt.Printf("original=%d generated=%d total=%d\n", result.Original, result.Generated, result.Total)
	return nil
}
