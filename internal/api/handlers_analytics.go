// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dverne/mercantile/internal/analytics"
	"github.com/dverne/mercantile/internal/models"
)

// RunETL handles on-demand aggregation merges.
//
// Every run recomputes interaction totals wholesale and upserts them
// into the ranking warehouse, so rerunning with no new interactions is
// a no-op. Runs inside the configured minimum interval are rejected
// with 429 rather than queued.
//
// @Summary Run the interaction aggregation merge
// @Description Aggregates recorded interactions from the details store and merges the totals into the DuckDB ranking warehouse. Idempotent per input set.
// @Tags Analytics
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Merge complete, or nothing to transfer"
// @Failure 429 {object} models.APIResponse "Requested too soon after previous run"
// @Failure 500 {object} models.APIResponse "Merge failed"
// @Router /etl/run [post]
func (h *Handler) RunETL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	start := time.Now()
	processed, err := h.orchestrator.RunAggregationMerge(r.Context())
	if err != nil {
		if errors.Is(err, analytics.ErrRunTooSoon) {
			respondError(w, http.StatusTooManyRequests, ErrCodeTooManyRequests,
				"Aggregation merge requested too soon after previous run.", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeETLFailed, "ETL orchestration failed.", err)
		return
	}

	message := "Application-Driven ETL complete. Badger summary merged into DuckDB."
	if processed == 0 {
		message = "No interaction data to transfer."
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"message":            message,
			"products_processed": processed,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// TopProducts handles the ranked product listing.
//
// The n query parameter selects the page size; out-of-range values
// fall back to the configured default and maximum instead of erroring,
// and ranked products that have left the core catalog are skipped.
// An empty warehouse yields an empty list, not an error.
//
// @Summary Get the top products by recorded views
// @Description Reads the highest-ranked product IDs from the warehouse and joins each against the core catalog, enriched with thumbnail URLs and view counts.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param n query int false "Number of products to return (default 5)"
// @Success 200 {object} models.APIResponse{data=[]models.MergedProduct} "Ranked products retrieved successfully"
// @Failure 500 {object} models.APIResponse "Ranking query failed"
// @Router /analytics/top [get]
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	n := getIntParam(r, "n", 0) // 0 selects the configured default

	start := time.Now()
	products, err := h.orchestrator.ResolveTopN(r.Context(), n)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeRankingQuery, "DuckDB Analytics query failed.", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   products,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
