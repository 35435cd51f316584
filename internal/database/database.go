// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/logging"
)

// rankingSchema is created on open. The warehouse holds exactly one
// derived table; everything in it is reproducible from the interaction
// log, so the file can be deleted and rebuilt by the next merge.
const rankingSchema = `
CREATE TABLE IF NOT EXISTS product_rankings (
	product_id        VARCHAR PRIMARY KEY,
	interaction_score BIGINT NOT NULL,
	updated_at        TIMESTAMP NOT NULL DEFAULT now()
)`

// DB wraps the DuckDB warehouse connection.
type DB struct {
	conn *sql.DB
	cfg  config.AnalyticsConfig
}

// New opens (or creates) the warehouse file and bootstraps the schema.
// The parent directory is created when missing so first boot on an
// empty volume works.
func New(cfg config.AnalyticsConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	dbDir := filepath.Dir(cfg.DatabasePath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("create warehouse directory %s: %w", dbDir, err)
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.DatabasePath, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}

	// DuckDB is embedded; a small pool avoids file-lock contention
	// while still letting reads overlap the merge.
	conn.SetMaxOpenConns(runtime.NumCPU())
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn, cfg: cfg}
	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("initialize warehouse: %w", err)
	}

	logging.Info().
		Str("path", cfg.DatabasePath).
		Int("threads", numThreads).
		Str("max_memory", cfg.MaxMemory).
		Msg("duckdb ranking warehouse opened")

	return db, nil
}

func (db *DB) initialize() error {
	ctx, cancel := db.ensureContext(context.Background())
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, rankingSchema); err != nil {
		return fmt.Errorf("create product_rankings table: %w", err)
	}
	return nil
}

// Close checkpoints and closes the connection. The checkpoint is best
// effort; a failed one only costs a WAL replay on next open.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("warehouse checkpoint before close failed")
	}
	cancel()

	return db.conn.Close()
}

// Checkpoint flushes the WAL into the main database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

// Ping checks if the warehouse connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("warehouse connection is nil")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// ensureContext guarantees a deadline on every warehouse operation.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
