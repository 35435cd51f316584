// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

// Package testinfra provides shared helpers for integration tests:
// Docker availability checks, container lifecycle helpers, and a
// PostgreSQL container for exercising the core store against a real
// database.
//
// Everything here is gated behind the integration build tag; the unit
// suite never touches Docker.
package testinfra
