// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

//go:build integration

package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/models"
	"github.com/dverne/mercantile/internal/testinfra"
)

func TestPostgresCore_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pg, err := testinfra.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, pg)

	store, err := NewPostgresCore(ctx, config.PostgresConfig{
		DSN:          pg.DSN,
		MaxConns:     4,
		QueryTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewPostgresCore: %v", err)
	}
	defer store.Close()

	seed := []models.CoreRecord{
		{ProductID: "p1", Name: "Trail Laptop", Price: 1299.99, Stock: 12, SKU: "LP100"},
		{ProductID: "p3", Name: "Bare Widget", Price: 9.5, Stock: 100, SKU: "WD-300"},
	}
	n, err := store.SeedProducts(ctx, seed)
	if err != nil {
		t.Fatalf("SeedProducts: %v", err)
	}
	if n != 2 {
		t.Fatalf("seeded %d rows, want 2", n)
	}

	t.Run("fetch returns native row map", func(t *testing.T) {
		raw, err := store.FetchCore(ctx, "p1")
		if err != nil {
			t.Fatalf("FetchCore: %v", err)
		}

		rows, ok := raw.([]map[string]any)
		if !ok || len(rows) != 1 {
			t.Fatalf("payload = %v", raw)
		}
		row := rows[0]
		if row["name"] != "Trail Laptop" {
			t.Errorf("name = %v", row["name"])
		}
		if row["price"] != 1299.99 {
			t.Errorf("price = %v", row["price"])
		}
		if row["stock"] != 12 {
			t.Errorf("stock = %v", row["stock"])
		}
	})

	t.Run("fetch of a missing product is empty", func(t *testing.T) {
		raw, err := store.FetchCore(ctx, "p404")
		if err != nil {
			t.Fatalf("FetchCore: %v", err)
		}
		rows, _ := raw.([]map[string]any)
		if len(rows) != 0 {
			t.Errorf("rows = %v, want none", rows)
		}
	})

	t.Run("list returns rows in product-id order", func(t *testing.T) {
		raw, err := store.ListCore(ctx)
		if err != nil {
			t.Fatalf("ListCore: %v", err)
		}

		rows := raw.([]map[string]any)
		if len(rows) != 2 {
			t.Fatalf("len = %d, want 2", len(rows))
		}
		if rows[0]["product_id"] != "p1" || rows[1]["product_id"] != "p3" {
			t.Errorf("order = %v, %v", rows[0]["product_id"], rows[1]["product_id"])
		}
	})

	t.Run("seeding again upserts in place", func(t *testing.T) {
		_, err := store.SeedProducts(ctx, []models.CoreRecord{
			{ProductID: "p1", Name: "Trail Laptop v2", Price: 1199.99, Stock: 8, SKU: "LP101"},
		})
		if err != nil {
			t.Fatalf("SeedProducts: %v", err)
		}

		raw, err := store.FetchCore(ctx, "p1")
		if err != nil {
			t.Fatalf("FetchCore: %v", err)
		}
		rows := raw.([]map[string]any)
		if len(rows) != 1 {
			t.Fatalf("len = %d, want 1 (upsert, not append)", len(rows))
		}
		if rows[0]["name"] != "Trail Laptop v2" {
			t.Errorf("name = %v, want the updated value", rows[0]["name"])
		}
	})

	t.Run("ping reflects pool health", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Errorf("Ping: %v", err)
		}
	})
}
