// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package models

// InteractionEventType is the single supported interaction kind.
const InteractionEventType = "product_view"

// InteractionDetails is the fixed human-readable note stored with
// every tracked view.
const InteractionDetails = "User viewed this product."

// InteractionEvent is one append-only user interaction. The recorder
// assigns ID and Timestamp; callers supply only the user and product.
// Events are never mutated or deleted.
//
// Fields:
//   - ID: Store-assigned event identifier (UUID key in the interaction store)
//   - UserID: Acting user, or the configured default for anonymous views
//   - ProductID: Product the event refers to (required)
//   - EventType: Fixed InteractionEventType
//   - Details: Fixed InteractionDetails
//   - Timestamp: Recorder-assigned capture time, UTC RFC 3339
type InteractionEvent struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	EventType string `json:"event_type"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

// InteractionAggregate is one row of the wholesale interaction-count
// recomputation, keyed by product. Aggregates are derived fresh on
// every orchestration run, never incrementally updated.
type InteractionAggregate struct {
	ProductID        string `json:"product_id"`
	InteractionCount int64  `json:"interaction_count"`
}

// InteractionAggregateFromMap builds an aggregate from a normalized
// row map.
func InteractionAggregateFromMap(m map[string]any) InteractionAggregate {
	return InteractionAggregate{
		ProductID:        stringField(m, "product_id"),
		InteractionCount: intField(m, "interaction_count"),
	}
}

// RankingRow is one row of the product_rankings warehouse table:
// a product and its interaction score at the last merge. Read-only
// outside the orchestrator's merge step.
type RankingRow struct {
	ProductID        string `json:"product_id"`
	InteractionScore int64  `json:"interaction_score"`
}

// RankingRowFromMap builds a ranking row from a normalized row map.
func RankingRowFromMap(m map[string]any) RankingRow {
	return RankingRow{
		ProductID:        stringField(m, "product_id"),
		InteractionScore: intField(m, "interaction_score"),
	}
}

// CategoryStats is the details-store aggregation result for one
// category: how many catalog documents carry the category and how many
// interaction events their products have accumulated.
type CategoryStats struct {
	Category      string `json:"category"`
	TotalProducts int    `json:"total_products"`
	TotalViews    int64  `json:"total_views"`
}
