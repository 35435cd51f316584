// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

// Package analytics orchestrates the two ranking flows.
//
// The write flow (Orchestrator.RunAggregationMerge) pulls wholesale
// interaction aggregates from the interaction store and upserts them
// into the DuckDB warehouse, rate-limited so repeated requests cannot
// hammer the stores. The read flow (Orchestrator.ResolveTopN) walks
// the warehouse's top-N rows and joins each back to its transactional
// core record, skipping rows whose product no longer resolves.
//
// Scheduler drives the write flow in the background, on a ticker and
// on demand from the interaction fan-out.
package analytics
