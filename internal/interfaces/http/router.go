// Package http wires the route tree and the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	"github.com/gizitrack/stuntmap/internal/interfaces/http/handlers"
	"github.com/gizitrack/stuntmap/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies for the
// complete route tree.
type RouterConfig struct {
	StatsHandler  *handlers.StatsHandler
	MapHandler    *handlers.MapHandler
	MetaHandler   *handlers.MetaHandler
	HealthHandler *handlers.HealthHandler

	// MetricsHandler serves the Prometheus scrape endpoint; nil disables it.
	MetricsHandler http.Handler

	// HTTPObserver instruments requests; nil disables instrumentation.
	HTTPObserver middleware.HTTPObserver

	// CORSOrigins is the allowed dashboard origin list; empty disables CORS.
	CORSOrigins []string

	Logger logging.Logger
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSOrigins))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.HTTPObserver != nil {
		r.Use(middleware.Metrics(cfg.HTTPObserver))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.StatsHandler != nil {
			api.Get("/stats", cfg.StatsHandler.GetStats)
		}
		if cfg.MapHandler != nil {
			api.Get("/map", cfg.MapHandler.GetMap)
		}
		if cfg.MetaHandler != nil {
			api.Get("/regions", cfg.MetaHandler.GetRegions)
			api.Get("/facilities", cfg.MetaHandler.GetFacilities)
			api.Get("/diagnostics", cfg.MetaHandler.GetDiagnostics)
		}
	})

	return r
}
