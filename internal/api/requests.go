// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package api

// Request bodies validated with go-playground/validator v10 tags.
// Handlers check the domain-specific required fields first so the
// wire-level error messages stay stable, then run validateRequest for
// the bound checks.

// TrackViewRequest is the request body for POST /api/v1/interactions.
// UserID is optional; an empty value is attributed to the configured
// default user by the recorder.
type TrackViewRequest struct {
	UserID    string `json:"user_id" validate:"omitempty,max=128"`
	ProductID string `json:"product_id" validate:"required,max=64"`
}

// ProductLookupRequest is the request body for POST /api/v1/products/lookup.
// UserID is accepted for parity with the tracking body but unused.
type ProductLookupRequest struct {
	UserID    string `json:"user_id" validate:"omitempty,max=128"`
	ProductID string `json:"product_id" validate:"required,max=64"`
}
