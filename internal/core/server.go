// Package core provides the API chassis for the Chronos planning service.
// It creates a chi router and enforces cross-cutting concerns -- security,
// logging, observability, and error handling -- before requests reach
// domain-specific handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chronos/internal/config"
)

// MetricsCollector defines the interface for recording API telemetry.
type MetricsCollector interface {
	// RecordRequest records API request metrics including latency and count.
	RecordRequest(method, endpoint, status string, duration time.Duration)
}

// Server encapsulates all dependencies for the Chronos API, allowing for
// easy injection during testing and distinct configuration for different
// environments.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator
	Metrics   MetricsCollector

	// HealthProbes are the dependency checks executed by GET /health.
	HealthProbes []HealthProbe

	// V1RouteRegistrars are populated by the application entry point to
	// register domain handler routes under /v1. This indirection avoids
	// import cycles between core and handler packages.
	V1RouteRegistrars []func(chi.Router)

	// MetricsHandler serves GET /metrics when set (Prometheus exposition).
	MetricsHandler http.Handler

	// Internal router
	router *chi.Mux
}

// NewServer initializes dependencies, sets up the router, and prepares the
// server for route mounting. It performs a fail-fast check on critical
// configuration.
//
// The caller is responsible for mounting routes (via MountRoutes) after
// construction. This separation allows tests to customize route registration.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	s := &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}

	return s, nil
}

// Handler returns the http.Handler interface for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
// This is used internally by route-mounting methods and tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown performs a graceful termination of server resources. The service
// holds no persistent connections; shutdown is bounded by the context and
// exists so the entry point has a single teardown hook.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.Logger.Info("server shutdown complete")
	return nil
}
