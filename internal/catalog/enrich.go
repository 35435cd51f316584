// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package catalog

import (
	"strings"

	"github.com/dverne/mercantile/internal/models"
)

// skuSentinel is the legacy "no SKU" marker some detail documents
// carry. It must never appear in a constructed image URL.
const skuSentinel = "N/A"

// Enricher derives image URLs from SKUs. It is pure and stateless
// after construction; one instance serves every request path.
type Enricher struct {
	baseURL        string
	fallbackURL    string
	placeholderSKU string
}

// NewEnricher builds an enricher from the catalog config. An empty
// fallback URL derives one from the base so the enrichment invariant
// (both URLs always set) holds under minimal configuration.
func NewEnricher(cfg Config) *Enricher {
	base := strings.TrimSuffix(cfg.ImageBaseURL, "/")
	fallback := cfg.FallbackImageURL
	if fallback == "" {
		fallback = base + "/placeholder.jpg"
	}
	return &Enricher{
		baseURL:        base,
		fallbackURL:    fallback,
		placeholderSKU: cfg.PlaceholderSKU,
	}
}

// usable reports whether a SKU may be embedded in a URL. Empty SKUs,
// the legacy sentinel, and the synthesis placeholder all map to the
// fallback image instead.
func (e *Enricher) usable(sku string) bool {
	return sku != "" && sku != skuSentinel && sku != e.placeholderSKU
}

// ImageURL returns the full-size image URL for a SKU, or the fallback
// when the SKU is unusable.
func (e *Enricher) ImageURL(sku string) string {
	if !e.usable(sku) {
		return e.fallbackURL
	}
	return e.baseURL + "/" + sku + ".jpg"
}

// ThumbnailURL returns the thumbnail variant for a SKU, or the
// fallback when the SKU is unusable.
func (e *Enricher) ThumbnailURL(sku string) string {
	if !e.usable(sku) {
		return e.fallbackURL
	}
	return e.baseURL + "/thumbnails/" + sku + ".jpg"
}

// Apply sets the full-size image URL and the fallback URL on a merged
// product. Idempotent; re-applying rewrites the same values.
func (e *Enricher) Apply(p *models.MergedProduct) {
	p.ImageURL = e.ImageURL(p.SKU)
	p.FallbackURL = e.fallbackURL
}

// ApplyThumbnail sets the thumbnail image URL and the fallback URL on
// a merged product. Used by the ranking response path.
func (e *Enricher) ApplyThumbnail(p *models.MergedProduct) {
	p.ImageURL = e.ThumbnailURL(p.SKU)
	p.FallbackURL = e.fallbackURL
}
