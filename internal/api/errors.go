// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package api

// Error codes for API responses. Codes are part of the public
// contract: clients branch on them, so changing one is a breaking
// change even when the HTTP status stays the same.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeNoProducts         = "NO_PRODUCTS"
	ErrCodeTrackingFailed     = "TRACKING_FAILED"
	ErrCodeETLFailed          = "ETL_FAILED"
	ErrCodeRankingQuery       = "RANKING_QUERY_FAILED"
	ErrCodeStatsFailed        = "STATS_FAILED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
)
