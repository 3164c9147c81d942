// Package openweather implements domain.WeatherProvider against the
// OpenWeatherMap current-weather API.
package openweather

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/order-demand/internal/domain"
	"github.com/couchcryptid/order-demand/internal/observability"
)

// DefaultBaseURL is the OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client implements domain.WeatherProvider using the OpenWeatherMap API.
type Client struct {
	apiKey     string
	country    string
	httpClient *resty.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client. country is appended to the city
// query (e.g. "Mumbai,IN") when non-empty.
func NewClient(apiKey, baseURL, country string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{
		apiKey:     apiKey,
		country:    country,
		httpClient: httpClient,
		metrics:    metrics,
		logger:     logger,
	}
}

// CurrentWeather returns the current temperature (°C) and main condition for city.
// A response missing either field fails with domain.ErrIncompleteObservation.
func (c *Client) CurrentWeather(ctx context.Context, city string) (domain.Observation, error) {
	query := city
	if c.country != "" {
		query = fmt.Sprintf("%s,%s", city, c.country)
	}

	result := new(response)
	apiErr := new(errorResponse)

	start := time.Now()
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     query,
			"appid": c.apiKey,
			"units": "metric",
		}).
		SetResult(result).
		SetError(apiErr).
		Get("/weather")
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.Observation{}, fmt.Errorf("weather request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.Observation{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode(), apiErr.Message)
	}

	obs, err := result.observation()
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("incomplete").Inc()
		return domain.Observation{}, err
	}

	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	c.logger.Debug("weather observed", "city", city, "condition", obs.Condition, "temperature_c", obs.TemperatureC)
	return obs, nil
}

// OpenWeatherMap API response types.

type response struct {
	Main    *mainBlock `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
}

type mainBlock struct {
	Temp *float64 `json:"temp"`
}

type errorResponse struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

func (r *response) observation() (domain.Observation, error) {
	if r.Main == nil || r.Main.Temp == nil {
		return domain.Observation{}, fmt.Errorf("missing main.temp: %w", domain.ErrIncompleteObservation)
	}
	if len(r.Weather) == 0 || strings.TrimSpace(r.Weather[0].Main) == "" {
		return domain.Observation{}, fmt.Errorf("missing weather condition: %w", domain.ErrIncompleteObservation)
	}
	return domain.Observation{
		TemperatureC: *r.Main.Temp,
		Condition:    r.Weather[0].Main,
	}, nil
}

var _ domain.WeatherProvider = (*Client)(nil)
