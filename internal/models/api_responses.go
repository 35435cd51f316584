// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Fields:
//   - Status: Response status ("success" or "error")
//   - Data: Response payload (any JSON-serializable type)
//   - Metadata: Query execution metadata (timing, timestamp)
//   - Error: Error details (populated only when Status is "error")
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"product_id": "p1", "name": "Trail Shoe", ...},
//	  "metadata": {
//	    "timestamp": "2026-08-20T12:00:00Z",
//	    "query_time_ms": 12
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "PRODUCT_NOT_FOUND",
//	    "message": "Product ID p7 not found in any data store.",
//	    "details": {"product_id": "p7"}
//	  },
//	  "metadata": {"timestamp": "2026-08-20T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
// All API responses include this metadata for monitoring query performance.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Store round-trip time in milliseconds (omitted when zero)
//
// Example:
//
//	{
//	  "timestamp": "2026-08-20T12:00:00Z",
//	  "query_time_ms": 23
//	}
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
// Provides consistent error format across all API endpoints for better client handling.
//
// Fields:
//   - Code: Machine-readable error code (e.g., "VALIDATION_ERROR", "PRODUCT_NOT_FOUND")
//   - Message: Human-readable error message
//   - Details: Additional context (field names, underlying error text, etc.)
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - INVALID_REQUEST_BODY: Request body is not valid JSON
//   - PRODUCT_NOT_FOUND: Product absent from every data store
//   - NO_PRODUCTS: No catalog source produced any products
//   - TRACKING_FAILED: Interaction write failed
//   - ETL_FAILED: Aggregation merge run failed
//   - RANKING_QUERY_FAILED: Ranking warehouse query failed
//   - STATS_FAILED: Category aggregation failed
//   - SERVICE_UNAVAILABLE: Required backing service is not ready
//   - METHOD_NOT_ALLOWED: HTTP method not supported on this route
//
// Example:
//
//	{
//	  "code": "VALIDATION_ERROR",
//	  "message": "product_id is required for tracking.",
//	  "details": {
//	    "field": "product_id",
//	    "constraint": "required"
//	  }
//	}
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
