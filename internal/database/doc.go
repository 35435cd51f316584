// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

// Package database hosts the DuckDB analytics warehouse. It owns the
// product_rankings table, which aggregation runs populate from the
// interaction log and the ranked-products endpoint reads back.
//
// The warehouse is embedded: New opens a single database file, applies
// the schema, and hands back a *DB whose lifetime matches the process.
// Close checkpoints before shutting the connection so the WAL does not
// accumulate across restarts.
package database

import "github.com/dverne/mercantile/internal/gateway"

var (
	_ gateway.RankingStore = (*DB)(nil)
	_ gateway.Pinger       = (*DB)(nil)
)
