// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

// Package main provides the Mercantile HTTP server
//
// Mercantile reconciles product data across PostgreSQL, Badger, and
// DuckDB and serves the merged catalog with interaction analytics.
//
// @title Mercantile API
// @version 1.0
// @description Product catalog reconciliation and analytics service
// @description
// @description ## Features
// @description
// @description - **Reconciled Catalog**: Core records joined with enrichment documents on every read
// @description - **Fallback Reads**: Detail-store synthesis when the core database is unavailable
// @description - **Interaction Tracking**: View events recorded per product and user
// @description - **Merge Runs**: On-demand and scheduled distillation into category rankings
// @description - **Top-N Rankings**: Per-category product rankings from the DuckDB warehouse
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Write and merge endpoints carry stricter per-cost limits.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-23T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/dverne/mercantile/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8094
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health checks and system status
//
// @tag.name Catalog
// @tag.description Reconciled product reads and category statistics
//
// @tag.name Analytics
// @tag.description Interaction recording, merge runs, and Top-N rankings
package main
