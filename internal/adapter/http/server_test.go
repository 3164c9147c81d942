package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/order-demand/internal/adapter/http"
	"github.com/couchcryptid/order-demand/internal/domain"
)

var _ sharedobs.ReadinessChecker = (*mockReadiness)(nil)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockEstimator struct {
	est          domain.DemandEstimate
	err          error
	gotCity      string
	gotCondition string
}

func (m *mockEstimator) Estimate(_ context.Context, city, condition string) (domain.DemandEstimate, error) {
	m.gotCity = city
	m.gotCondition = condition
	return m.est, m.err
}

func newTestServer(readyErr error, est *mockEstimator) *httpadapter.Server {
	if est == nil {
		est = &mockEstimator{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, est, logger)
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("no snapshot yet"), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no snapshot yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestEstimateReturns200(t *testing.T) {
	est := &mockEstimator{est: domain.DemandEstimate{
		ID:             "abc",
		City:           "Mumbai",
		Condition:      "Rain",
		WeatherSource:  domain.SourceProvider,
		ExpectedOrders: 478,
		Basis:          domain.BasisWeather,
		SampleSize:     3,
		ForDate:        time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
	}}
	srv := newTestServer(nil, est)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/estimate?city=Mumbai", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Mumbai", est.gotCity)
	assert.Empty(t, est.gotCondition)

	var body domain.DemandEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 478, body.ExpectedOrders)
	assert.Equal(t, domain.BasisWeather, body.Basis)
}

func TestEstimatePassesCondition(t *testing.T) {
	est := &mockEstimator{}
	srv := newTestServer(nil, est)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/estimate?city=Delhi&condition=Fog", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Delhi", est.gotCity)
	assert.Equal(t, "Fog", est.gotCondition)
}

func TestEstimateMissingCityReturns400(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/estimate?city=%20", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEstimateUnknownCityReturns404(t *testing.T) {
	est := &mockEstimator{err: fmt.Errorf("city %q: %w", "Atlantis", domain.ErrNoData)}
	srv := newTestServer(nil, est)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/estimate?city=Atlantis", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Atlantis")
}

func TestEstimateFailureReturns500(t *testing.T) {
	est := &mockEstimator{err: errors.New("disk gone")}
	srv := newTestServer(nil, est)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/estimate?city=Mumbai", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk gone")
}

func TestEstimateRejectsPost(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/estimate?city=Mumbai", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
