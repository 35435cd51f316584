// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for compression,
performance monitoring, and Prometheus metrics integration. The
components are plain http.HandlerFunc wrappers so they compose with the
chi router through the adapter in internal/api as well as with bare
net/http handlers in tests.

Key Components:

  - Compression: gzip compression for catalog and analytics payloads
  - Performance Monitor: request latency tracking with percentile calculations
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware Stack:

Within the chi router, the typical ordering per route group is:

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(chiMiddleware(middleware.Compression))
	    r.Use(chiMiddleware(middleware.PrometheusMetrics))
	    r.Use(perfMon.Middleware)

	    r.Group(func(r chi.Router) {
	        r.Use(rateLimiter.RateLimit())
	        r.Get("/products", handler.Products)
	    })
	})

Usage Example - Compression:

	import "github.com/dverne/mercantile/internal/middleware"

	// Wrap handler with gzip compression
	http.HandleFunc("/api/v1/products",
	    middleware.Compression(handler),
	)

	// Clients must send Accept-Encoding: gzip; everyone else
	// receives identity encoding

Usage Example - Performance Monitoring:

	// Create performance monitor with a 1000-sample window
	perfMon := middleware.NewPerformanceMonitor(1000)

	// Record every request passing through the router
	r.Use(perfMon.Middleware)

	// Get per-endpoint statistics
	for _, s := range perfMon.GetStats() {
	    fmt.Printf("%s p50=%dms p95=%dms p99=%dms\n",
	        s.Path, s.P50Duration, s.P95Duration, s.P99Duration)
	}

Prometheus Endpoint Labels:

PrometheusMetrics labels requests by chi route pattern when one is
available, so /api/v1/products/9001 and /api/v1/products/413 both count
against /api/v1/products/{id}. Raw paths are used only for requests
served outside a chi router.

Performance Characteristics:

  - Compression: 70-90% size reduction for JSON payloads
  - Compression overhead: ~1-2ms for typical responses
  - Metrics overhead: <0.1ms per request
  - Performance monitor: sliding window, most recent samples only

Thread Safety:

All middleware components are thread-safe:
  - Compression pools gzip writers with sync.Pool
  - Performance monitor guards the window with sync.RWMutex
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: chi router and the chiMiddleware adapter
  - internal/metrics: Prometheus metric definitions
  - internal/logging: request/correlation ID context plumbing
*/
package middleware
