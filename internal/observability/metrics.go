package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "order_demand"

// Metrics holds the Prometheus counters, histograms, and gauges for augmentation
// and estimation runs.
type Metrics struct {
	RecordsLoaded    prometheus.Counter
	RecordsGenerated prometheus.Counter
	SampleTiers      *prometheus.CounterVec // labels: tier={stratum,city,global}
	AugmentRuns      *prometheus.CounterVec // labels: outcome={augmented,noop,error}

	// Estimation metrics.
	Estimates         *prometheus.CounterVec // labels: basis={weather,city}
	EstimateErrors    prometheus.Counter
	ExpectedOrders    *prometheus.GaugeVec // labels: city
	EstimatesProduced prometheus.Counter
	SnapshotRuns      *prometheus.CounterVec // labels: outcome={success,error}
	SnapshotDuration  prometheus.Histogram

	// Weather provider metrics.
	WeatherLookups     *prometheus.CounterVec // labels: source={provider,fallback}
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error,incomplete}
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss}
	WeatherAPIDuration prometheus.Histogram
	WeatherEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsLoaded,
		m.RecordsGenerated,
		m.SampleTiers,
		m.AugmentRuns,
		m.Estimates,
		m.EstimateErrors,
		m.ExpectedOrders,
		m.EstimatesProduced,
		m.SnapshotRuns,
		m.SnapshotDuration,
		m.WeatherLookups,
		m.WeatherRequests,
		m.WeatherCache,
		m.WeatherAPIDuration,
		m.WeatherEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Total dataset records read from storage.",
		}),
		RecordsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_generated_total",
			Help:      "Total synthetic records produced by augmentation.",
		}),
		SampleTiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_tier_total",
			Help:      "Reference draws by the fallback tier that served them.",
		}, []string{"tier"}),
		AugmentRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "augment_runs_total",
			Help:      "Augmentation runs by outcome.",
		}, []string{"outcome"}),
		Estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimates_total",
			Help:      "Demand estimates by the rows they averaged over.",
		}, []string{"basis"}),
		EstimateErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimate_errors_total",
			Help:      "Estimation failures, including cities without data.",
		}),
		ExpectedOrders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expected_orders",
			Help:      "Most recent expected order count per city.",
		}, []string{"city"}),
		EstimatesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimates_published_total",
			Help:      "Total estimates written to the sink topic.",
		}),
		SnapshotRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_runs_total",
			Help:      "Scheduled estimate snapshots by outcome.",
		}, []string{"outcome"}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_duration_seconds",
			Help:      "Duration of a complete estimate snapshot.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		WeatherLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_lookups_total",
			Help:      "Weather resolutions by source of the observation used.",
		}, []string{"source"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Weather API requests by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_api_duration_seconds",
			Help:      "Weather API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		WeatherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "weather_enabled",
			Help:      "1 when the weather provider is configured, 0 when only the fallback is used.",
		}),
	}
}
