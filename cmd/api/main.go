// Package main is the entry point for the Chronos API server.
//
// It loads configuration, wires the weather source, location and date
// resolvers, the generative client, and the planning pipeline into the HTTP
// chassis, then starts listening for requests.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chronos/internal/api/handlers"
	"chronos/internal/config"
	"chronos/internal/core"
	"chronos/internal/dates"
	"chronos/internal/external"
	"chronos/internal/llm"
	"chronos/internal/locate"
	"chronos/internal/observability"
	"chronos/internal/planner"
	"chronos/internal/weather"
)

// userAgent identifies outbound requests to the weather and geolocation
// collaborators.
const userAgent = "Chronos/1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("chronos API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()

	// External collaborators share the retry/breaker base client.
	weatherBase := external.NewBaseClient(
		&http.Client{Timeout: cfg.Weather.Timeout},
		"wttr",
		external.DefaultRetryPolicy(),
		userAgent,
	)
	wttr := external.NewWttrClient(weatherBase, cfg.Weather.BaseURL, logger)

	geoBase := external.NewBaseClient(
		&http.Client{Timeout: cfg.Geo.Timeout},
		"geoip",
		external.DefaultRetryPolicy(),
		userAgent,
	)
	geo := external.NewGeoIPClient(geoBase, cfg.Geo.BaseURL, logger)

	source := weather.NewSource(
		weather.NewCache(cfg.Weather.CacheTTL, clock),
		wttr,
		logger,
		metrics,
	)

	generator := llm.NewClient(
		cfg.Generative.BaseURL,
		cfg.Generative.Model,
		cfg.Generative.APIKey,
		logger,
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Generative.Timeout}),
	)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Metrics = metrics
	srv.MetricsHandler = promhttp.Handler()
	srv.HealthProbes = []core.HealthProbe{
		external.NewHTTPProbe("weather", cfg.Weather.BaseURL),
		external.NewHTTPProbe("generative", cfg.Generative.BaseURL),
	}

	pipeline := planner.NewOrchestrator(
		generator,
		source,
		srv.Validator.Validate(),
		clock,
		logger,
		metrics,
	)

	planHandler := handlers.NewPlanHandler(
		pipeline,
		locate.NewResolver(geo, cfg.Geo.AutoDetect, logger),
		dates.NewResolver(clock),
		clock,
		srv.Validator,
		logger,
	)
	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars, func(r chi.Router) {
		planHandler.RegisterRoutes(r)
	})

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	// Channel to capture server errors from ListenAndServe.
	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal or server error.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
