// Command estimate prints the weather-conditioned demand estimate for a city,
// or for every city in the dataset when -city is omitted, as JSON.
//
// Usage:
//
//	go run ./cmd/estimate -city Mumbai
//	go run ./cmd/estimate -city Delhi -condition Rain
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/order-demand/internal/adapter/csvstore"
	"github.com/couchcryptid/order-demand/internal/adapter/openweather"
	"github.com/couchcryptid/order-demand/internal/config"
	"github.com/couchcryptid/order-demand/internal/domain"
	"github.com/couchcryptid/order-demand/internal/observability"
	"github.com/couchcryptid/order-demand/internal/pipeline"
)

// exitNoData is the exit status when the dataset has no rows for the city.
const exitNoData = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dataPath := flag.String("data", cfg.DataPath, "path to the order CSV")
	city := flag.String("city", "", "city to estimate (all cities when empty)")
	condition := flag.String("condition", "", "weather condition to assume instead of looking it up")
	flag.Parse()

	cfg.DataPath = *dataPath
	logger := observability.NewCLILogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, *city, *condition, os.Stdout, logger)
	switch {
	case errors.Is(err, domain.ErrNoData):
		logger.Error("no data for city", "error", err)
		os.Exit(exitNoData)
	case err != nil:
		logger.Error("estimation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, city, condition string, out io.Writer, logger *slog.Logger) error {
	if city == "" && condition != "" {
		return fmt.Errorf("-condition requires -city")
	}

	metrics := observability.NewMetrics()
	store := csvstore.New(cfg.DataPath, logger)
	provider := openweather.FromConfig(cfg, metrics, logger)
	f := pipeline.NewForecaster(store, provider, domain.SeededRand(cfg.WeatherFallbackSeed), cfg.WeatherTimeout, logger, metrics)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if city == "" {
		all, err := f.EstimateAll(ctx)
		if err != nil {
			return err
		}
		return enc.Encode(all)
	}

	est, err := f.Estimate(ctx, city, condition)
	if err != nil {
		return err
	}
	return enc.Encode(est)
}
