package openweather

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/order-demand/internal/config"
	"github.com/couchcryptid/order-demand/internal/domain"
	"github.com/couchcryptid/order-demand/internal/observability"
)

var errNoProvider = errors.New("no weather provider")

// CachedProvider wraps a WeatherProvider with an in-memory LRU cache whose
// entries expire after a fixed TTL. Failures are never cached.
type CachedProvider struct {
	inner   domain.WeatherProvider
	cache   *lruCache
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a weather provider.
// A nil clock uses real time.
func NewCachedProvider(inner domain.WeatherProvider, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

func (c *CachedProvider) CurrentWeather(ctx context.Context, city string) (domain.Observation, error) {
	if c.inner == nil {
		return domain.Observation{}, errNoProvider
	}

	key := strings.ToLower(strings.TrimSpace(city))
	now := c.clock.Now()
	if obs, ok := c.cache.get(key, now); ok {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		return obs, nil
	}
	c.metrics.WeatherCache.WithLabelValues("miss").Inc()

	obs, err := c.inner.CurrentWeather(ctx, city)
	if err != nil {
		return obs, err
	}
	c.cache.put(key, obs, now.Add(c.ttl))
	return obs, nil
}

// lruCache is a thread-safe LRU cache of observations with per-entry expiry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.Observation
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string, now time.Time) (domain.Observation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Observation{}, false
	}
	if !now.Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return domain.Observation{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Observation, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}

// FromConfig builds the cached OpenWeatherMap provider described by cfg. It
// returns nil when weather lookups are disabled so callers fall back to
// generated weather.
func FromConfig(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.WeatherProvider {
	if !cfg.WeatherEnabled {
		metrics.WeatherEnabled.Set(0)
		logger.Info("weather provider disabled, using fallback weather")
		return nil
	}
	metrics.WeatherEnabled.Set(1)
	client := NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherCountry, cfg.WeatherTimeout, metrics, logger)
	logger.Info("weather provider enabled",
		"country", cfg.WeatherCountry,
		"timeout", cfg.WeatherTimeout,
		"cache_size", cfg.WeatherCacheSize,
		"cache_ttl", cfg.WeatherCacheTTL,
	)
	return NewCachedProvider(client, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, nil, metrics)
}
