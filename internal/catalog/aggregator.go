// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package catalog

import (
	"context"

	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/metrics"
	"github.com/dverne/mercantile/internal/models"
)

// listOverriddenKeys are document keys the listing path rewrites on
// detail items. The document's own values must not resurface through
// the open attrs on the wire.
var listOverriddenKeys = [...]string{"name", "price", "source", "image_url", "fallback_url"}

// ListAll returns the concatenated catalog: every core row followed by
// every detail document, each labeled with its origin store. The two
// sources are never merged here; a product present in both stores
// appears twice. A failing source contributes zero items and the other
// side still serves, so the listing degrades instead of erroring.
// ErrNoProducts is returned only when both sources came up empty.
func (e *Engine) ListAll(ctx context.Context) ([]models.MergedProduct, error) {
	coreRaw, coreErr := e.core.ListCore(ctx)
	if coreErr != nil {
		metrics.CatalogListSourceFailures.WithLabelValues("core").Inc()
		logging.Warn().
			Err(coreErr).
			Msg("core store listing failed, serving details only")
	}
	coreRows := List(coreRaw, coreErr)

	detailRaw, detailErr := e.details.ListDetails(ctx)
	if detailErr != nil {
		metrics.CatalogListSourceFailures.WithLabelValues("details").Inc()
		logging.Warn().
			Err(detailErr).
			Msg("details store listing failed, serving core only")
	}
	detailRows := List(detailRaw, detailErr)

	items := make([]models.MergedProduct, 0, len(coreRows)+len(detailRows))

	for _, row := range coreRows {
		p := models.MergedFromCore(models.CoreRecordFromMap(row))
		p.Source = models.SourceCore
		e.enricher.Apply(&p)
		items = append(items, p)
	}
	metrics.CatalogListItems.WithLabelValues("core").Add(float64(len(coreRows)))

	for _, row := range detailRows {
		d := models.DetailRecordFromMap(row)
		for _, k := range listOverriddenKeys {
			delete(d.Attrs, k)
		}
		p := models.MergedProduct{
			ProductID: d.ProductID,
			Name:      d.Category,
			Price:     e.cfg.PlaceholderPrice,
			SKU:       d.SKU,
			Category:  d.Category,
			Source:    models.SourceDetails,
			Attrs:     d.Attrs,
		}
		e.enricher.Apply(&p)
		items = append(items, p)
	}
	metrics.CatalogListItems.WithLabelValues("details").Add(float64(len(detailRows)))

	if len(items) == 0 {
		return nil, ErrNoProducts
	}

	logging.Debug().
		Int("core_items", len(coreRows)).
		Int("detail_items", len(detailRows)).
		Msg("catalog listing assembled")

	return items, nil
}
