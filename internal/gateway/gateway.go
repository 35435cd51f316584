// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package gateway

import (
	"context"

	"github.com/dverne/mercantile/internal/models"
)

// CoreStore reads the transactional half of the catalog: authoritative
// name, price, and stock rows.
//
// Raw payloads are store-shaped: implementations may return native
// []map[string]any row slices or JSON text. Decoding happens in the
// catalog normalizer, never at a call site.
type CoreStore interface {
	// FetchCore returns the raw core rows matching one product ID.
	FetchCore(ctx context.Context, productID string) (any, error)

	// ListCore returns the raw rows for the whole core catalog.
	ListCore(ctx context.Context) (any, error)
}

// DetailStore reads the schema-open product documents and answers
// category aggregations.
type DetailStore interface {
	// FetchDetails returns the raw detail documents matching one
	// product ID.
	FetchDetails(ctx context.Context, productID string) (any, error)

	// ListDetails returns the raw documents for every detail product.
	ListDetails(ctx context.Context) (any, error)

	// CategoryStats aggregates document and view counts for one category.
	CategoryStats(ctx context.Context, category string) (models.CategoryStats, error)
}

// InteractionStore appends view events and aggregates them wholesale.
type InteractionStore interface {
	// InsertInteraction persists one event and returns the
	// store-assigned ID.
	InsertInteraction(ctx context.Context, event models.InteractionEvent) (string, error)

	// FetchInteractionAggregates recomputes per-product view counts
	// across every stored event. There is no incremental path; each
	// call walks the full event set.
	FetchInteractionAggregates(ctx context.Context) (any, error)
}

// RankingStore holds the derived popularity scores produced by the
// aggregation merge.
type RankingStore interface {
	// MergeRankings upserts the aggregates into the ranking table.
	// Replaying the same input leaves the stored state unchanged.
	MergeRankings(ctx context.Context, aggregates []models.InteractionAggregate) error

	// FetchTopN returns the raw rows for the n highest-scored products
	// in descending score order.
	FetchTopN(ctx context.Context, n int) (any, error)
}

// Pinger is implemented by stores that can answer a health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}
