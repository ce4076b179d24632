// Package api provides the HTTP API for KitaMOVE.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kitamove/kitamove/internal/api/handler"
	"github.com/kitamove/kitamove/internal/api/middleware"
	"github.com/kitamove/kitamove/internal/api/response"
	"github.com/kitamove/kitamove/internal/pricing"
	"github.com/kitamove/kitamove/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// RouteMode is reported by /ops/status.
	RouteMode string
	// Routes answers POST /api/route.
	Routes handler.RouteHandlerConfig
	// Quoter prices POST /api/quote (optional, defaults to the standard tariff).
	Quoter *pricing.Quoter
	// Registry lists the upstream routing engines (optional).
	Registry *resilience.Registry
	// UpstreamRequired is set when no fallback exists for the upstream.
	UpstreamRequired bool

	// RateLimitPerMinute caps /api requests per client IP. Zero disables the limit.
	RateLimitPerMinute int
	// AllowedOrigins restricts CORS (default: any origin).
	AllowedOrigins []string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "kitamove-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.AllowedOrigins}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:          cfg.Version,
		BuildTime:        cfg.BuildTime,
		RouteMode:        cfg.RouteMode,
		Registry:         cfg.Registry,
		UpstreamRequired: cfg.UpstreamRequired,
	})
	routeCfg := cfg.Routes
	routeCfg.Logger = cfg.Logger
	routeHandler := handler.NewRouteHandler(routeCfg)
	quoteHandler := handler.NewQuoteHandler(cfg.Quoter, cfg.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(middleware.PerMinute(cfg.RateLimitPerMinute)))
		r.Post("/route", routeHandler.ComputeRoute)
		r.Post("/quote", quoteHandler.Quote)
	})

	r.Route("/ops", func(r chi.Router) {
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)
		r.Get("/status", opsHandler.SystemStatus)
	})

	return r
}
