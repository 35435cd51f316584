// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package api

import (
	"time"

	"github.com/dverne/mercantile/internal/analytics"
	"github.com/dverne/mercantile/internal/catalog"
	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/gateway"
	"github.com/dverne/mercantile/internal/middleware"
)

// apiVersion is reported by the health endpoint.
const apiVersion = "1.0.0"

// StorePingers carries the connectivity probes for each backing store.
// A nil probe reports its store as disconnected, matching the handler
// convention that an unwired dependency is a degraded dependency, not
// a panic.
type StorePingers struct {
	Core     gateway.Pinger // PostgreSQL catalog
	Details  gateway.Pinger // Badger documents + interactions
	Rankings gateway.Pinger // DuckDB warehouse
}

// Handler holds the domain services the HTTP layer dispatches into.
// Each handler method calls exactly one domain operation; precedence,
// synthesis, and ranking decisions stay in catalog and analytics.
type Handler struct {
	engine       *catalog.Engine
	recorder     *catalog.Recorder
	orchestrator *analytics.Orchestrator
	details      gateway.DetailStore
	pingers      StorePingers
	config       *config.Config
	startTime    time.Time
	perfMon      *middleware.PerformanceMonitor
}

// NewHandler creates the API handler. details backs the category stats
// passthrough and pingers back the health endpoints; both may overlap
// with the stores inside engine and orchestrator.
func NewHandler(
	engine *catalog.Engine,
	recorder *catalog.Recorder,
	orchestrator *analytics.Orchestrator,
	details gateway.DetailStore,
	pingers StorePingers,
	cfg *config.Config,
) *Handler {
	return &Handler{
		engine:       engine,
		recorder:     recorder,
		orchestrator: orchestrator,
		details:      details,
		pingers:      pingers,
		config:       cfg,
		startTime:    time.Now(),
		perfMon:      middleware.NewPerformanceMonitor(1000), // Keep last 1000 requests
	}
}

// GetPerformanceStats returns performance monitoring statistics
func (h *Handler) GetPerformanceStats() []middleware.EndpointStats {
	if h.perfMon != nil {
		return h.perfMon.GetStats()
	}
	return nil
}

// fetchTimeout returns the per-request deadline for store-touching
// handlers.
func (h *Handler) fetchTimeout() time.Duration {
	if h.config != nil && h.config.Catalog.FetchTimeout > 0 {
		return h.config.Catalog.FetchTimeout
	}
	return 5 * time.Second
}
