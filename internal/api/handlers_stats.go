// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dverne/mercantile/internal/models"
)

// CategoryStats handles per-category statistics.
//
// This is a passthrough to the details store's aggregation capability;
// no reconciliation logic runs here.
//
// @Summary Get aggregate statistics for a category
// @Description Returns product count and total recorded views for one category, computed by the details store.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} models.APIResponse "Statistics aggregated successfully"
// @Failure 500 {object} models.APIResponse "Aggregation failed"
// @Router /categories/{category}/stats [get]
func (h *Handler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	category := chi.URLParam(r, "category")
	if category == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "category is required.", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.fetchTimeout())
	defer cancel()

	start := time.Now()
	stats, err := h.details.CategoryStats(ctx, category)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeStatsFailed, "Failed to run category aggregation tool.", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"message":    "Product statistics successfully aggregated from Badger.",
			"statistics": stats,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
