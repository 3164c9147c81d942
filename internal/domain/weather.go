package domain

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Weather sources reported in WeatherResult.Source.
const (
	SourceProvider = "provider"
	SourceFallback = "fallback"
	SourceOverride = "override" // condition supplied by the caller
)

// FallbackConditions are the conditions drawn when no provider observation is available.
var FallbackConditions = []string{"Clear", "Clouds", "Rain"}

// Fallback temperature range in °C, inclusive.
const (
	FallbackMinTempC = 25
	FallbackMaxTempC = 35
)

// Observation is a current-weather reading for a city.
type Observation struct {
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
}

// WeatherProvider returns the current weather for a city.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, city string) (Observation, error)
}

// WeatherResult is the outcome of ResolveWeather. Err holds the provider
// failure that triggered the fallback; it is nil when the provider succeeded or
// was not configured.
type WeatherResult struct {
	Observation Observation
	Source      string
	Err         error
}

// FallbackObservation draws an integer temperature in
// [FallbackMinTempC, FallbackMaxTempC] and a condition from FallbackConditions.
func FallbackObservation(rng Rand) Observation {
	temp := FallbackMinTempC + rng.IntN(FallbackMaxTempC-FallbackMinTempC+1)
	return Observation{
		TemperatureC: float64(temp),
		Condition:    pick(rng, FallbackConditions),
	}
}

// ResolveWeather asks provider for the city's current weather, bounded by
// timeout. A nil provider, a provider error (including the timeout), or an
// observation without a condition yields a fallback observation instead
// (graceful degradation). The returned result always carries a usable condition.
func ResolveWeather(ctx context.Context, provider WeatherProvider, city string, timeout time.Duration, rng Rand, logger *slog.Logger) WeatherResult {
	if provider == nil {
		return WeatherResult{Observation: FallbackObservation(rng), Source: SourceFallback}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	obs, err := provider.CurrentWeather(ctx, city)
	if err == nil && strings.TrimSpace(obs.Condition) == "" {
		err = ErrIncompleteObservation
	}
	if err != nil {
		logger.Warn("weather lookup failed, using fallback",
			"city", city,
			"error", err,
		)
		return WeatherResult{Observation: FallbackObservation(rng), Source: SourceFallback, Err: err}
	}

	return WeatherResult{Observation: obs, Source: SourceProvider}
}
