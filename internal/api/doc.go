// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

/*
Package api provides the HTTP REST API layer for Mercantile.

The package is a thin shell over the reconciliation engine and the
analytics orchestrator: handlers decode the request, call exactly one
domain operation, and encode the result into the standard envelope.
All merge, fallback, and ranking decisions live in internal/catalog
and internal/analytics; nothing in this package inspects product data
beyond routing it.

Key Components:

  - Handler: request handlers for the catalog, interaction, and
    analytics endpoints
  - SetupChi: route table and middleware stack (chi router)
  - ChiMiddleware: CORS and per-group rate limits from the Chi
    ecosystem (go-chi/cors, go-chi/httprate)
  - Response formatting: standardized JSON envelope with metadata,
    ETag, and stable error codes

Endpoints (all under /api/v1 unless noted):

  - GET  /products                      full reconciled listing
  - GET  /products/{id}                 single-product reconciliation
  - POST /products/lookup               body-driven variant of the above
  - GET  /categories/{category}/stats   details-store aggregation
  - POST /interactions                  record a product view
  - POST /etl/run                       aggregation merge into rankings
  - GET  /analytics/top                 ranked products joined to catalog
  - GET  /health, /health/live, /health/ready
  - GET  /metrics                       Prometheus exposition (root)
  - GET  /swagger/*                     API docs UI (root)

Error responses carry a stable machine-readable code (for example
PRODUCT_NOT_FOUND, NO_PRODUCTS, TRACKING_FAILED) so clients can branch
without parsing messages.

Usage Example:

	h := api.NewHandler(engine, recorder, orchestrator, details, pingers, cfg)
	router := api.SetupChi(h, cfg)
	http.ListenAndServe(":8094", router)
*/
package api
