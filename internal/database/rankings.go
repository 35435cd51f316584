// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/dverne/mercantile/internal/metrics"
	"github.com/dverne/mercantile/internal/models"
)

// MergeRankings upserts interaction aggregates into product_rankings
// inside one transaction: a failed run leaves the table untouched.
// Scores are absolute counts, not deltas, so replaying the same
// aggregates is idempotent.
func (db *DB) MergeRankings(ctx context.Context, aggregates []models.InteractionAggregate) error {
	if len(aggregates) == 0 {
		return nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.mergeRankingsTx(ctx, aggregates)
	metrics.RecordStoreQuery("duckdb", "merge_rankings", time.Since(start), err)
	return err
}

func (db *DB) mergeRankingsTx(ctx context.Context, aggregates []models.InteractionAggregate) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsert = `
		INSERT INTO product_rankings (product_id, interaction_score, updated_at)
		VALUES (?, ?, now())
		ON CONFLICT (product_id) DO UPDATE SET
			interaction_score = excluded.interaction_score,
			updated_at = now()`

	for _, agg := range aggregates {
		if agg.ProductID == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, upsert, agg.ProductID, agg.InteractionCount); err != nil {
			return fmt.Errorf("upsert ranking %s: %w", agg.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge: %w", err)
	}
	return nil
}

// FetchTopN returns the n highest-scored ranking rows as native row
// maps, ordered by score descending with product ID as tiebreak so
// equal scores page deterministically.
func (db *DB) FetchTopN(ctx context.Context, n int) (any, error) {
	if n <= 0 {
		return []map[string]any{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT product_id, interaction_score
		FROM product_rankings
		ORDER BY interaction_score DESC, product_id ASC
		LIMIT ?`, n)
	if err != nil {
		metrics.RecordStoreQuery("duckdb", "fetch_top_n", time.Since(start), err)
		return nil, fmt.Errorf("query rankings: %w", err)
	}
	defer closeQuietly(rows)

	out := []map[string]any{}
	for rows.Next() {
		var (
			productID string
			score     int64
		)
		if err := rows.Scan(&productID, &score); err != nil {
			metrics.RecordStoreQuery("duckdb", "fetch_top_n", time.Since(start), err)
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}
		out = append(out, map[string]any{
			"product_id":        productID,
			"interaction_score": score,
		})
	}
	err = rows.Err()
	metrics.RecordStoreQuery("duckdb", "fetch_top_n", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("read ranking rows: %w", err)
	}
	return out, nil
}

// CountRankings reports how many products currently hold a ranking
// row. The orchestrator folds it into the merge completion log.
func (db *DB) CountRankings(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM product_rankings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rankings: %w", err)
	}
	return count, nil
}
