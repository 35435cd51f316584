// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/dverne/mercantile/internal/gateway"
	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/metrics"
	"github.com/dverne/mercantile/internal/models"
)

// Reconciliation scenario labels, recorded per request.
const (
	scenarioMerged   = "merged"
	scenarioPartial  = "partial"
	scenarioFallback = "fallback"
	scenarioNotFound = "not_found"
)

// Engine merges the two halves of a product into one record. Core is
// authoritative for name, price, and stock; details win on key
// collision. A failed source is degraded to an absent one, so the
// engine returns an error only when neither store produced a record.
//
// The engine runs inside whatever context it is handed and applies no
// deadline of its own.
type Engine struct {
	core     gateway.CoreStore
	details  gateway.DetailStore
	enricher *Enricher
	cfg      Config
}

// NewEngine builds a reconciliation engine over the two product stores.
func NewEngine(core gateway.CoreStore, details gateway.DetailStore, cfg Config) *Engine {
	return &Engine{
		core:     core,
		details:  details,
		enricher: NewEnricher(cfg),
		cfg:      cfg,
	}
}

// Reconcile fetches both halves of one product concurrently and merges
// them. Four outcomes:
//
//   - both present: details overlay the core record
//   - core only: the core record is returned with a partial-mode note
//   - details only: a synthetic core is built from placeholders, then
//     overlaid with the details and marked fallback mode
//   - neither: ErrNotFound
//
// Every returned product carries image enrichment.
func (e *Engine) Reconcile(ctx context.Context, productID string) (models.MergedProduct, error) {
	start := time.Now()

	var coreRes, detailRes Result
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		raw, err := e.core.FetchCore(ctx, productID)
		coreRes = First(raw, err)
	}()
	go func() {
		defer wg.Done()
		raw, err := e.details.FetchDetails(ctx, productID)
		detailRes = First(raw, err)
	}()
	wg.Wait()

	if coreRes.Kind == Failed {
		metrics.ReconcileSourceFailures.WithLabelValues("core").Inc()
		logging.Warn().
			Str("product_id", productID).
			Err(coreRes.Err).
			Msg("core store fetch failed, continuing without core record")
	}
	if detailRes.Kind == Failed {
		metrics.ReconcileSourceFailures.WithLabelValues("details").Inc()
		logging.Warn().
			Str("product_id", productID).
			Err(detailRes.Err).
			Msg("details store fetch failed, continuing without details")
	}

	var (
		product  models.MergedProduct
		scenario string
	)
	switch {
	case coreRes.Kind == Record && detailRes.Kind == Record:
		product = models.MergedFromCore(models.CoreRecordFromMap(coreRes.Fields))
		models.DetailRecordFromMap(detailRes.Fields).ApplyTo(&product)
		scenario = scenarioMerged

	case coreRes.Kind == Record:
		product = models.MergedFromCore(models.CoreRecordFromMap(coreRes.Fields))
		product.SourceNote = models.SourceNotePartial
		scenario = scenarioPartial

	case detailRes.Kind == Record:
		detail := models.DetailRecordFromMap(detailRes.Fields)
		product = e.synthesize(detail)
		detail.ApplyTo(&product)
		product.SourceNote = models.SourceNoteFallback
		scenario = scenarioFallback

	default:
		metrics.RecordReconcileScenario(scenarioNotFound, time.Since(start))
		return models.MergedProduct{}, ErrNotFound
	}

	e.enricher.Apply(&product)
	metrics.RecordReconcileScenario(scenario, time.Since(start))

	logging.Debug().
		Str("product_id", productID).
		Str("scenario", scenario).
		Dur("duration", time.Since(start)).
		Msg("product reconciled")

	return product, nil
}

// synthesize builds the placeholder core half for a details-only
// product. The detail overlay applied afterwards restores the
// document's own category, SKU, and open attributes.
func (e *Engine) synthesize(d models.DetailRecord) models.MergedProduct {
	category := d.Category
	if category == "" {
		category = e.cfg.DefaultCategory
	}
	sku := d.SKU
	if sku == "" {
		sku = e.cfg.PlaceholderSKU
	}
	return models.MergedProduct{
		ProductID: d.ProductID,
		Name:      models.SynthesizedNamePrefix + category,
		Price:     e.cfg.PlaceholderPrice,
		Stock:     e.cfg.PlaceholderStock,
		SKU:       sku,
	}
}
