// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

// Package gateway defines the store interfaces behind the catalog and
// provides their production implementations.
//
// Four stores back the engine, each owning one concern:
//
//   - CoreStore (PostgreSQL): authoritative product rows with name,
//     price, and stock
//   - DetailStore (Badger): schema-open product documents plus
//     category aggregation
//   - InteractionStore (Badger): append-only view events and their
//     wholesale aggregation
//   - RankingStore (DuckDB): derived popularity scores maintained by
//     the aggregation merge
//
// Fetch and list methods return raw payloads (native row slices or
// JSON text) on purpose. Store drivers differ in what they hand back,
// and the catalog normalizer owns the decode, so the interfaces stay
// honest about the wire shape instead of promising a cleanliness the
// stores cannot guarantee.
//
// The core store can be wrapped with a circuit breaker (see
// WrapCoreWithBreaker) so a dead PostgreSQL fails fast into the
// engine's fallback path instead of stalling every request.
package gateway
