// Package api provides the HTTP Query API for floodwatch.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/thaaaru/floodwatch/internal/api/handler"
	"github.com/thaaaru/floodwatch/internal/api/middleware"
)

// RouterConfig holds configuration for the router: the shared handler set
// wired up by cmd/server, plus process metadata and the ambient middleware
// stack.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	RegionHandler   *handler.RegionHandler
	DistrictHandler *handler.DistrictHandler
	RiverHandler    *handler.RiverHandler
	ThreatHandler   *handler.ThreatHandler
	IntelHandler    *handler.IntelHandler
	WeatherHandler  *handler.WeatherHandler
	FacilityHandler *handler.FacilityHandler
	ClimateHandler  *handler.ClimateHandler
	SourcesHandler  *handler.SourcesHandler
	OpsHandler      *handler.OpsHandler
}

// NewRouter creates a new chi router with all Query API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "floodwatch-api"
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
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min, force-refresh endpoints

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", cfg.OpsHandler.HealthCheck)
			r.Get("/ready", cfg.OpsHandler.ReadinessCheck)
			r.Get("/status", cfg.OpsHandler.SystemStatus)
		})

		// Region registry
		r.Route("/regions", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", cfg.RegionHandler.ListRegions)
			r.Get("/current", cfg.RegionHandler.CurrentRegion)
			r.Post("/current/{id}", cfg.RegionHandler.SetCurrentRegion)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.RegionHandler.GetRegion)
				r.Get("/districts", cfg.DistrictHandler.ListDistricts)
				r.Get("/rivers", cfg.RiverHandler.StationsByRegion)
			})
		})

		// River stations by bounding box and provider health
		r.Route("/rivers", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", cfg.RiverHandler.StationsByBounds)
			r.Get("/providers/health", cfg.RiverHandler.ProviderHealth)
		})

		// Composite Threat Engine
		r.Route("/threat", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", cfg.ThreatHandler.GetSnapshot)
			r.With(expensiveRateLimit).Post("/refresh", cfg.ThreatHandler.Refresh)
		})

		// Intelligence Engine
		r.Route("/intel", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/priorities", cfg.IntelHandler.Priorities)
			r.Get("/clusters", cfg.IntelHandler.Clusters)
			r.Get("/districts", cfg.IntelHandler.Summary)
			r.Get("/districts/{name}", cfg.IntelHandler.DistrictDetail)
			r.Get("/actions", cfg.IntelHandler.Actions)
			r.With(expensiveRateLimit).Post("/refresh", cfg.IntelHandler.Refresh)
		})

		// Weather: observation, forecast, alerts, early warning
		r.Route("/weather", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", cfg.WeatherHandler.Overview)
			r.Get("/alerts", cfg.WeatherHandler.Alerts)
			r.Get("/high-risk", cfg.WeatherHandler.HighRisk)
			r.Get("/early-warning", cfg.WeatherHandler.EarlyWarning)
			r.Get("/{district}", cfg.WeatherHandler.District)
			r.Get("/{district}/daily", cfg.WeatherHandler.Daily)
			r.Get("/{district}/hourly", cfg.WeatherHandler.Hourly)
		})

		// OSM Facilities
		r.Route("/facilities", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", cfg.FacilityHandler.All)
			r.Get("/nearby", cfg.FacilityHandler.Nearby)
			r.Get("/nearest-hospital", cfg.FacilityHandler.NearestHospital)
			r.With(expensiveRateLimit).Post("/refresh", cfg.FacilityHandler.Refresh)
		})

		// Historical Climate archive
		r.Route("/climate", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/{district}", cfg.ClimateHandler.Series)
		})

		// Generic per-source read surface: marine, traffic, environmental, and
		// any other registered fetcher with no bespoke handler group above.
		r.Route("/sources", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", cfg.SourcesHandler.List)
			r.Get("/{name}", cfg.SourcesHandler.Get)
			r.With(expensiveRateLimit).Post("/{name}/refresh", cfg.SourcesHandler.Refresh)
		})
	})

	return r
}
