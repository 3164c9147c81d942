// Package http serves health, readiness, metrics, and on-demand estimates.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/order-demand/internal/domain"
)

// Estimator produces a demand estimate for a city. An empty condition asks the
// estimator to resolve the current weather itself.
type Estimator interface {
	Estimate(ctx context.Context, city, condition string) (domain.DemandEstimate, error)
}

// Server exposes health, readiness, metrics, and estimate HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /estimate routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, estimator Estimator, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /estimate", s.handleEstimate(estimator))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleEstimate(estimator Estimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := strings.TrimSpace(r.URL.Query().Get("city"))
		if city == "" {
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "city query parameter is required"})
			return
		}
		condition := strings.TrimSpace(r.URL.Query().Get("condition"))

		est, err := estimator.Estimate(r.Context(), city, condition)
		switch {
		case errors.Is(err, domain.ErrNoData):
			sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		case err != nil:
			s.logger.Error("estimate failed", "city", city, "error", err)
			sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "estimate failed"})
			return
		}
		sharedobs.WriteJSON(w, http.StatusOK, est)
	}
}
