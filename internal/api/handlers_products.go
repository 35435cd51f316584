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

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/dverne/mercantile/internal/catalog"
	"github.com/dverne/mercantile/internal/models"
)

// Products handles the full catalog listing.
//
// Each source contributes independently: a failed or empty core store
// still yields the details-store items and vice versa. The request
// fails only when both sources produced nothing.
//
// @Summary List all products from both stores
// @Description Returns the concatenated catalog: core-store products and details-store products, each enriched with image URLs and tagged with their source. One store failing reduces the listing instead of aborting it.
// @Tags Catalog
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.MergedProduct} "Products retrieved successfully"
// @Failure 500 {object} models.APIResponse "No products loaded from any source"
// @Router /products [get]
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.fetchTimeout())
	defer cancel()

	start := time.Now()
	products, err := h.engine.ListAll(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeNoProducts, "No products loaded from any source.", err)
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

// Product handles single-product reconciliation by path parameter.
//
// @Summary Get a single reconciled product
// @Description Fetches the product from both stores and merges them with details-precedence. Core-only products carry a partial-mode note, details-only products get synthesized core fields, and a miss in both stores is a 404.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.APIResponse{data=models.MergedProduct} "Product retrieved successfully"
// @Failure 404 {object} models.APIResponse "Product not found in any data store"
// @Router /products/{id} [get]
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	productID := chi.URLParam(r, "id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "product_id is required.", nil)
		return
	}

	h.reconcileOne(w, r, productID)
}

// ProductLookup handles single-product reconciliation by request body.
// The body mirrors the tracking body; user_id is accepted but unused.
//
// @Summary Look up a single reconciled product
// @Description Body-driven variant of GET /products/{id} for clients that post identifiers instead of building paths.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body ProductLookupRequest true "Product lookup request"
// @Success 200 {object} models.APIResponse{data=models.MergedProduct} "Product retrieved successfully"
// @Failure 400 {object} models.APIResponse "Missing or invalid product_id"
// @Failure 404 {object} models.APIResponse "Product not found in any data store"
// @Router /products/lookup [post]
func (h *Handler) ProductLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	var req ProductLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequestBody, "Invalid request body", err)
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "product_id is required.", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	h.reconcileOne(w, r, req.ProductID)
}

// reconcileOne runs the merge for one product and writes the response.
// Shared by the path-parameter and body-driven lookup routes.
func (h *Handler) reconcileOne(w http.ResponseWriter, r *http.Request, productID string) {
	ctx, cancel := context.WithTimeout(r.Context(), h.fetchTimeout())
	defer cancel()

	start := time.Now()
	product, err := h.engine.Reconcile(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeProductNotFound,
				"Product ID "+sanitizeLogValue(productID)+" not found in any data store.", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeServiceUnavailable, "Product fetch failed", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   product,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
