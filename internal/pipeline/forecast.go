package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/order-demand/internal/domain"
	"github.com/couchcryptid/order-demand/internal/observability"
)

// Forecaster estimates expected orders for a city under its current weather.
// The dataset is reloaded on every call and never written.
type Forecaster struct {
	loader   RecordLoader
	provider domain.WeatherProvider
	rng      domain.Rand
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewForecaster creates a Forecaster. Pass a nil provider to always use the
// fallback weather generator. rng must be safe for concurrent use if the
// Forecaster is shared between goroutines.
func NewForecaster(loader RecordLoader, provider domain.WeatherProvider, rng domain.Rand, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Forecaster {
	return &Forecaster{
		loader:   loader,
		provider: provider,
		rng:      rng,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// Estimate returns the demand estimate for city. A non-empty condition skips
// the weather lookup and estimates for that condition directly. City and
// condition names match the dataset case-insensitively. Returns an error wrapping
// domain.ErrNoData when the dataset has no rows for the city.
func (f *Forecaster) Estimate(ctx context.Context, city, condition string) (domain.DemandEstimate, error) {
	records, err := f.loader.Load(ctx)
	if err != nil {
		f.metrics.EstimateErrors.Inc()
		return domain.DemandEstimate{}, err
	}
	f.metrics.RecordsLoaded.Add(float64(len(records)))
	return f.estimate(ctx, records, city, condition)
}

// EstimateAll returns one weather-conditioned estimate per distinct city in
// the dataset, in first-seen order.
func (f *Forecaster) EstimateAll(ctx context.Context) ([]domain.DemandEstimate, error) {
	records, err := f.loader.Load(ctx)
	if err != nil {
		f.metrics.EstimateErrors.Inc()
		return nil, err
	}
	f.metrics.RecordsLoaded.Add(float64(len(records)))

	cities, _ := domain.Labels(records)
	out := make([]domain.DemandEstimate, 0, len(cities))
	for _, city := range cities {
		est, err := f.estimate(ctx, records, city, "")
		if err != nil {
			return nil, err
		}
		out = append(out, est)
	}
	return out, nil
}

func (f *Forecaster) estimate(ctx context.Context, records []domain.OrderRecord, city, condition string) (domain.DemandEstimate, error) {
	cities, conditions := domain.Labels(records)
	city = canonicalLabel(cities, city)
	cityRecords := domain.FilterByCity(records, city)
	if len(cityRecords) == 0 {
		f.metrics.EstimateErrors.Inc()
		return domain.DemandEstimate{}, fmt.Errorf("city %q: %w", city, domain.ErrNoData)
	}

	var weather domain.WeatherResult
	if condition = strings.TrimSpace(condition); condition != "" {
		weather = domain.WeatherResult{
			Observation: domain.Observation{Condition: canonicalLabel(conditions, condition)},
			Source:      domain.SourceOverride,
		}
	} else {
		weather = domain.ResolveWeather(ctx, f.provider, city, f.timeout, f.rng, f.logger)
		f.metrics.WeatherLookups.WithLabelValues(weather.Source).Inc()
	}

	est, err := domain.EstimateDetailed(cityRecords, weather.Observation.Condition)
	if err != nil {
		f.metrics.EstimateErrors.Inc()
		return domain.DemandEstimate{}, fmt.Errorf("city %q: %w", city, err)
	}

	f.metrics.Estimates.WithLabelValues(est.Basis).Inc()
	f.metrics.ExpectedOrders.WithLabelValues(city).Set(float64(est.ExpectedOrders))

	f.logger.Info("demand estimated",
		"city", city,
		"condition", weather.Observation.Condition,
		"weather_source", weather.Source,
		"basis", est.Basis,
		"sample_size", est.SampleSize,
		"expected_orders", est.ExpectedOrders,
	)
	return domain.NewDemandEstimate(city, weather, est), nil
}

// canonicalLabel returns the dataset's spelling of s among labels, or the
// trimmed s when no label matches case-insensitively.
func canonicalLabel(labels []string, s string) string {
	s = strings.TrimSpace(s)
	for _, l := range labels {
		if strings.EqualFold(l, s) {
			return l
		}
	}
	return s
}
