// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

// Package catalog is the reconciliation engine: it turns the raw,
// divergent payloads of the product stores into coherent catalog
// records.
//
// The package has four moving parts:
//
//   - the normalizer (First, List) coerces whatever shape a store
//     returned into row maps, treating malformed payloads as absence
//   - the Engine merges the core and detail halves of one product
//     (Reconcile) or concatenates both stores into a listing (ListAll)
//   - the Enricher derives image URLs from SKUs, with a fallback image
//     for products whose SKU is absent or a known placeholder
//   - the Recorder appends interaction events and announces them to an
//     optional Publisher
//
// The guiding rule is availability over strictness: a failed or
// malformed source degrades to an absent one, and only the
// nothing-anywhere outcomes surface as errors (ErrNotFound,
// ErrNoProducts). Deadlines are the caller's concern; the engine
// applies none of its own.
package catalog
