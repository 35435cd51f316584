// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dverne/mercantile/internal/gateway"
	"github.com/dverne/mercantile/internal/models"
)

// pingStore probes one backing store. A nil pinger counts as
// disconnected so a partially wired handler reports honestly.
func pingStore(ctx context.Context, p gateway.Pinger) bool {
	return p != nil && p.Ping(ctx) == nil
}

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns connectivity for all three backing stores (PostgreSQL core, Badger details, DuckDB rankings) plus uptime. The service reports degraded rather than failing while any store is down.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	ctx := r.Context()
	coreConnected := pingStore(ctx, h.pingers.Core)
	detailsConnected := pingStore(ctx, h.pingers.Details)
	rankingsConnected := pingStore(ctx, h.pingers.Rankings)

	// The engine survives individual store loss, so any reachable
	// store keeps the service up; anything short of full connectivity
	// is degraded.
	status := "healthy"
	if !coreConnected || !detailsConnected || !rankingsConnected {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           apiVersion,
		CoreConnected:     coreConnected,
		DetailsConnected:  detailsConnected,
		RankingsConnected: rankingsConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only when every backing store responds; returns 503 while any store is unreachable. Used for Kubernetes readiness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	ctx := r.Context()
	coreConnected := pingStore(ctx, h.pingers.Core)
	detailsConnected := pingStore(ctx, h.pingers.Details)
	rankingsConnected := pingStore(ctx, h.pingers.Rankings)
	ready := coreConnected && detailsConnected && rankingsConnected

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"core_connected":     coreConnected,
			"details_connected":  detailsConnected,
			"rankings_connected": rankingsConnected,
			"ready_to_serve":     ready,
			"uptime":             time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
