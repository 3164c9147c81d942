package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all settings, populated from environment variables and an
// optional .env file in the working directory.
type Config struct {
	DataPath    string
	TargetTotal int
	RandomSeed  uint64 // augmentation sampling; 0 seeds from the clock

	// WeatherFallbackSeed seeds the fallback weather draw used when no
	// provider observation is available. 0 seeds from the clock.
	WeatherFallbackSeed uint64

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Weather provider configuration.
	WeatherAPIKey    string
	WeatherEnabled   bool
	WeatherBaseURL   string
	WeatherCountry   string
	WeatherTimeout   time.Duration
	WeatherCacheSize int
	WeatherCacheTTL  time.Duration

	// Estimate publishing configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaEstimateTopic string
	EstimateSchedule   string // cron spec in UTC, or "off"
}

// Load reads configuration from the environment, applying defaults where unset.
// Variables already present in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("WEATHER_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	targetTotal, err := parseInt("TARGET_TOTAL", 100)
	if err != nil {
		return nil, err
	}
	if targetTotal < 0 {
		return nil, errors.New("invalid TARGET_TOTAL: must not be negative")
	}

	seed, err := parseSeed("RANDOM_SEED", "42")
	if err != nil {
		return nil, err
	}
	fallbackSeed, err := parseSeed("WEATHER_FALLBACK_SEED", "0")
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	weatherEnabled := apiKey != ""
	if v := os.Getenv("WEATHER_ENABLED"); v != "" {
		weatherEnabled = v == "true"
	}

	cfg := &Config{
		DataPath:    sharedcfg.EnvOrDefault("DATA_PATH", "data/zomato_orders.csv"),
		TargetTotal: targetTotal,
		RandomSeed:  seed,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WeatherFallbackSeed: fallbackSeed,

		WeatherAPIKey:    apiKey,
		WeatherEnabled:   weatherEnabled,
		WeatherBaseURL:   sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		WeatherCountry:   sharedcfg.EnvOrDefault("WEATHER_COUNTRY", "IN"),
		WeatherTimeout:   weatherTimeout,
		WeatherCacheSize: parseCacheSize(),
		WeatherCacheTTL:  cacheTTL,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaEstimateTopic: sharedcfg.EnvOrDefault("KAFKA_ESTIMATE_TOPIC", "demand-estimates"),
		EstimateSchedule:   sharedcfg.EnvOrDefault("ESTIMATE_SCHEDULE", "0 9 * * *"),
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.WeatherEnabled && cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_ENABLED is true but OPENWEATHER_API_KEY is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaEstimateTopic == "" {
		return nil, errors.New("KAFKA_ESTIMATE_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseSeed(key, fallback string) (uint64, error) {
	n, err := strconv.ParseUint(sharedcfg.EnvOrDefault(key, fallback), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseCacheSize() int {
	if s := os.Getenv("WEATHER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 100
}
