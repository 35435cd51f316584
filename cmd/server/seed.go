// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package main

import (
	"context"
	"fmt"

	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/models"
)

// coreSeeder and detailSeeder cover the store writes seeding needs.
// Satisfied by *gateway.PostgresCore and *gateway.BadgerStore.
type coreSeeder interface {
	SeedProducts(ctx context.Context, records []models.CoreRecord) (int, error)
}

type detailSeeder interface {
	SeedDetails(ctx context.Context, docs []map[string]any) error
}

// seedDemoData upserts a small demo catalog into the core and detail
// stores. Enabled with SEED_DEMO_DATA=true for evaluation setups; the
// upsert makes it safe to run against a store that was seeded before.
//
// The dataset deliberately includes a core-only product (no enrichment
// document) and a detail-only document (no core row) so the fallback
// and synthesis paths have something to show.
func seedDemoData(ctx context.Context, core coreSeeder, details detailSeeder) error {
	inserted, err := core.SeedProducts(ctx, demoCoreRecords())
	if err != nil {
		return fmt.Errorf("seed core products: %w", err)
	}

	docs := demoDetailDocs()
	if err := details.SeedDetails(ctx, docs); err != nil {
		return fmt.Errorf("seed detail documents: %w", err)
	}

	logging.Info().
		Int("core_records", inserted).
		Int("detail_docs", len(docs)).
		Msg("Demo catalog seeded")
	return nil
}

// demoCoreRecords returns the canonical side of the demo catalog.
func demoCoreRecords() []models.CoreRecord {
	return []models.CoreRecord{
		{ProductID: "p-1001", Name: "Mechanical Keyboard", Price: 89.99, Stock: 120, SKU: "KB-2210"},
		{ProductID: "p-1002", Name: "Wireless Mouse", Price: 49.99, Stock: 340, SKU: "MS-3304"},
		{ProductID: "p-1003", Name: "USB-C Dock", Price: 129.99, Stock: 75, SKU: "DK-1190"},
		{ProductID: "p-1004", Name: "27in 4K Monitor", Price: 399.99, Stock: 42, SKU: "MN-2744"},
		// Core-only: no enrichment document exists for this one.
		{ProductID: "p-1005", Name: "HDMI Cable 2m", Price: 12.99, Stock: 900, SKU: "CB-0502"},
	}
}

// demoDetailDocs returns the enrichment side of the demo catalog.
func demoDetailDocs() []map[string]any {
	return []map[string]any{
		{
			"product_id": "p-1001",
			"category":   "peripherals",
			"sku":        "KB-2210",
			"attributes": map[string]any{"material": "aluminum", "switch_type": "tactile", "layout": "tkl"},
		},
		{
			"product_id": "p-1002",
			"category":   "peripherals",
			"sku":        "MS-3304",
			"attributes": map[string]any{"material": "plastic", "dpi": 16000, "wireless": true},
		},
		{
			"product_id": "p-1003",
			"category":   "accessories",
			"sku":        "DK-1190",
			"attributes": map[string]any{"ports": 11, "power_delivery_w": 100},
		},
		{
			"product_id": "p-1004",
			"category":   "displays",
			"sku":        "MN-2744",
			"attributes": map[string]any{"panel": "ips", "refresh_hz": 144},
		},
		// Detail-only: the reconciler synthesizes core fields for this one.
		{
			"product_id": "p-2001",
			"category":   "displays",
			"sku":        "MN-3201-B",
			"attributes": map[string]any{"panel": "va", "refurbished": true},
		},
	}
}
