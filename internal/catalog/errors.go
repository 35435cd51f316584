// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package catalog

import "errors"

// ErrNotFound is returned by Reconcile when neither the core store nor
// the details store holds the requested product. Store failures do not
// produce ErrNotFound; a failed source is treated as absent and only
// the both-absent outcome maps here.
var ErrNotFound = errors.New("product not found in any data store")

// ErrNoProducts is returned by ListAll when every source contributed
// zero items, whether because the stores are empty or because every
// source failed.
var ErrNoProducts = errors.New("no products loaded from any source")

// ErrMissingProductID is returned by Recorder.Record when the event
// names no product.
var ErrMissingProductID = errors.New("product_id is required")
