// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/dverne/mercantile/internal/catalog"
	"github.com/dverne/mercantile/internal/models"
)

// TrackView handles interaction recording.
//
// The write path is durable-first: the event is persisted before any
// event-bus publish, and a publish failure never fails the request.
//
// @Summary Record a product view interaction
// @Description Persists one view event for a product. An omitted user_id is attributed to the configured default user. The stored event feeds the analytics aggregation.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body TrackViewRequest true "Interaction to record"
// @Success 201 {object} models.APIResponse "Interaction tracked successfully"
// @Failure 400 {object} models.APIResponse "Missing or invalid product_id"
// @Failure 500 {object} models.APIResponse "Failed to record user interaction"
// @Router /interactions [post]
func (h *Handler) TrackView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	var req TrackViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequestBody, "Invalid request body", err)
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "product_id is required for tracking.", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.fetchTimeout())
	defer cancel()

	start := time.Now()
	event, err := h.recorder.Record(ctx, req.UserID, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrMissingProductID) {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, "product_id is required for tracking.", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeTrackingFailed, "Failed to record user interaction.", err)
		return
	}

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"message":     "Interaction tracked successfully (via Badger).",
			"inserted_id": event.ID,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
