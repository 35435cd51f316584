// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows our existing middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using Chi router.
//
// Route groups carry their own rate limits: health stays permissive
// for monitoring, reads take the configured default, writes are
// tighter, and the aggregation merge is tightest with the
// orchestrator's own interval guard behind it.
func SetupChi(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	chiMw := NewChiMiddleware(nil)
	if cfg != nil {
		chiMw = NewChiMiddlewareFromAPI(
			cfg.API.CORSOrigins,
			cfg.API.RateLimitReqs,
			cfg.API.RateLimitWindow,
			cfg.API.RateLimitDisabled,
		)
	}

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())  // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)    // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer) // Recover from panics
	r.Use(chiMw.CORS())            // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting so monitoring can poll frequently
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(chiMw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
		r.Get("/", h.Health)
	})

	// ========================
	// Data Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(h.perfMon.Middleware)

		// Read endpoints: configured default limit
		r.Group(func(r chi.Router) {
			r.Use(chiMw.RateLimit())
			r.Get("/products", h.Products)
			r.Get("/products/{id}", h.Product)
			r.Get("/categories/{category}/stats", h.CategoryStats)
			r.Get("/analytics/top", h.TopProducts)
		})

		// Write endpoints: two store calls per request
		r.Group(func(r chi.Router) {
			r.Use(chiMw.RateLimitWrite())
			r.Post("/products/lookup", h.ProductLookup)
			r.Post("/interactions", h.TrackView)
		})

		// Aggregation merge: wholesale recompute, keep it rare
		r.With(chiMw.RateLimitETL()).Post("/etl/run", h.RunETL)
	})

	// ========================
	// Observability Endpoints
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
