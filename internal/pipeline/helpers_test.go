package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/order-demand/internal/domain"
	"github.com/couchcryptid/order-demand/internal/observability"
)

// --- mocks ---

type memStore struct {
	records []domain.OrderRecord
	loadErr error
	saveErr error
	saved   []domain.OrderRecord
	saves   int
}

func (m *memStore) Load(_ context.Context) ([]domain.OrderRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.records, nil
}

func (m *memStore) Save(_ context.Context, records []domain.OrderRecord) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = records
	return nil
}

type stubProvider struct {
	obs   domain.Observation
	err   error
	calls int
}

func (p *stubProvider) CurrentWeather(_ context.Context, _ string) (domain.Observation, error) {
	p.calls++
	return p.obs, p.err
}

type mockSource struct {
	estimates []domain.DemandEstimate
	err       error
}

func (m *mockSource) EstimateAll(_ context.Context) ([]domain.DemandEstimate, error) {
	return m.estimates, m.err
}

type mockLoader struct {
	mu      sync.Mutex
	failFor int // number of leading calls that fail
	err     error
	calls   int
	batches [][]domain.DemandEstimate
}

func (m *mockLoader) LoadBatch(_ context.Context, estimates []domain.DemandEstimate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failFor {
		return m.err
	}
	m.batches = append(m.batches, estimates)
	return nil
}

func (m *mockLoader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(d int) time.Time {
	return time.Date(2024, time.July, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []domain.OrderRecord {
	return []domain.OrderRecord{
		{Date: day(1), City: "Mumbai", Weather: "Rain", Orders: 500, AvgOrderValue: 400},
		{Date: day(2), City: "Mumbai", Weather: "Clear", Orders: 300, AvgOrderValue: 350},
		{Date: day(3), City: "Mumbai", Weather: "Rain", Orders: 520, AvgOrderValue: 410},
		{Date: day(1), City: "Delhi", Weather: "Clouds", Orders: 320, AvgOrderValue: 316},
		{Date: day(2), City: "Delhi", Weather: "Rain", Orders: 389, AvgOrderValue: 352},
	}
}
