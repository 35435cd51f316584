// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/metrics"
	"github.com/dverne/mercantile/internal/models"
)

// coreSchema is created on connect. The core table is the closed,
// authoritative half of the catalog; new product attributes belong in
// the details store, not here.
const coreSchema = `
CREATE TABLE IF NOT EXISTS products (
	product_id TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	price      DOUBLE PRECISION NOT NULL,
	stock      INTEGER NOT NULL,
	sku        TEXT NOT NULL DEFAULT ''
)`

// PostgresCore is the pgx-backed CoreStore. Reads return native row
// maps, so the normalizer's pass-through branch serves this store.
type PostgresCore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

var (
	_ CoreStore = (*PostgresCore)(nil)
	_ Pinger    = (*PostgresCore)(nil)
)

// NewPostgresCore connects a pool, bootstraps the schema, and returns
// the store. The pool is sized from config; SimpleProtocol switches
// the exec mode for transaction-pooling proxies.
func NewPostgresCore(ctx context.Context, cfg config.PostgresConfig) (*PostgresCore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.SimpleProtocol {
		poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &PostgresCore{
		pool:         pool,
		queryTimeout: cfg.QueryTimeout,
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logging.Info().
		Int32("max_conns", poolCfg.MaxConns).
		Bool("simple_protocol", cfg.SimpleProtocol).
		Msg("postgres core store connected")
	return s, nil
}

func (s *PostgresCore) ensureSchema(ctx context.Context) error {
	ctx, cancel := s.timeoutCtx(ctx)
	defer cancel()
	if _, err := s.pool.Exec(ctx, coreSchema); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

// FetchCore returns the core rows for one product.
func (s *PostgresCore) FetchCore(ctx context.Context, productID string) (any, error) {
	ctx, cancel := s.timeoutCtx(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.pool.Query(ctx,
		`SELECT product_id, name, price, stock, sku FROM products WHERE product_id = $1`,
		productID)
	if err != nil {
		metrics.RecordStoreQuery("postgres", "fetch_core", time.Since(start), err)
		return nil, fmt.Errorf("query product %s: %w", productID, err)
	}
	out, err := collectProductRows(rows)
	metrics.RecordStoreQuery("postgres", "fetch_core", time.Since(start), err)
	return out, err
}

// ListCore returns every core row in stable product-ID order.
func (s *PostgresCore) ListCore(ctx context.Context) (any, error) {
	ctx, cancel := s.timeoutCtx(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.pool.Query(ctx,
		`SELECT product_id, name, price, stock, sku FROM products ORDER BY product_id`)
	if err != nil {
		metrics.RecordStoreQuery("postgres", "list_core", time.Since(start), err)
		return nil, fmt.Errorf("query products: %w", err)
	}
	out, err := collectProductRows(rows)
	metrics.RecordStoreQuery("postgres", "list_core", time.Since(start), err)
	return out, err
}

// SeedProducts upserts core records in batches. Used by operational
// tooling and integration tests; the API surface never writes core
// rows.
func (s *PostgresCore) SeedProducts(ctx context.Context, records []models.CoreRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	ctx, cancel := s.timeoutCtx(ctx)
	defer cancel()

	b := &pgx.Batch{}
	for _, r := range records {
		if r.ProductID == "" {
			continue
		}
		b.Queue(
			`INSERT INTO products (product_id, name, price, stock, sku)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (product_id) DO UPDATE SET
			   name = excluded.name,
			   price = excluded.price,
			   stock = excluded.stock,
			   sku = excluded.sku`,
			r.ProductID, r.Name, r.Price, r.Stock, r.SKU,
		)
	}

	start := time.Now()
	br := s.pool.SendBatch(ctx, b)
	total := 0
	for i := 0; i < b.Len(); i++ {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			metrics.RecordStoreQuery("postgres", "seed", time.Since(start), err)
			return total, fmt.Errorf("seed product batch: %w", err)
		}
		total += int(tag.RowsAffected())
	}
	err := br.Close()
	metrics.RecordStoreQuery("postgres", "seed", time.Since(start), err)
	if err != nil {
		return total, fmt.Errorf("close seed batch: %w", err)
	}
	return total, nil
}

// Ping reports pool health for readiness probes.
func (s *PostgresCore) Ping(ctx context.Context) error {
	ctx, cancel := s.timeoutCtx(ctx)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Close releases the pool. Safe to call once during shutdown.
func (s *PostgresCore) Close() {
	s.pool.Close()
}

func (s *PostgresCore) timeoutCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func collectProductRows(rows pgx.Rows) ([]map[string]any, error) {
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var (
			productID, name, sku string
			price                float64
			stock                int
		)
		if err := rows.Scan(&productID, &name, &price, &stock, &sku); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		out = append(out, map[string]any{
			"product_id": productID,
			"name":       name,
			"price":      price,
			"stock":      stock,
			"sku":        sku,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read product rows: %w", err)
	}
	return out, nil
}
