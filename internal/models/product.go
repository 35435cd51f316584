// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package models

import (
	"github.com/goccy/go-json"
)

// Source labels attached to catalog listing items, identifying the
// backing store an item came from. Single-product reconciliation
// responses omit the source label: a reconciled product spans both
// stores, so only a source note is attached when one side is missing.
const (
	SourceCore    = "PostgreSQL (Core)"
	SourceDetails = "Badger (Details)"
)

// Source notes attached by the reconciliation engine when one half of
// the merge is absent. The literals are part of the API contract.
const (
	SourceNotePartial  = "PARTIAL MODE: Badger details missing."
	SourceNoteFallback = "FALLBACK MODE: Core data synthesized from Badger details."
)

// SynthesizedNamePrefix prefixes the display name synthesized for
// products that exist only in the details store. The category (or
// "Generic") is appended.
const SynthesizedNamePrefix = "Badger Product: "

// CoreRecord is the transactional half of a product: the authoritative
// name, price, and stock from PostgreSQL. Immutable once fetched; the
// reconciliation engine never writes core records.
//
// Fields:
//   - ProductID: Identifying code shared with the details store
//   - Name: Display name
//   - Price: Unit price
//   - Stock: Units on hand
//   - SKU: Catalog code used for image enrichment
type CoreRecord struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	SKU       string  `json:"sku"`
}

// CoreRecordFromMap builds a CoreRecord from a normalized row map.
// Numeric values arrive as float64 on JSON-decoded paths and as native
// integer or float types from row scans; both are accepted.
func CoreRecordFromMap(m map[string]any) CoreRecord {
	return CoreRecord{
		ProductID: stringField(m, "product_id"),
		Name:      stringField(m, "name"),
		Price:     floatField(m, "price"),
		Stock:     int(intField(m, "stock")),
		SKU:       stringField(m, "sku"),
	}
}

// DetailRecord is the schema-open half of a product from the Badger
// details store. Only the identifying keys are lifted into typed
// fields; every other document key is preserved verbatim in Attrs.
// DetailRecord is an in-memory shape, not a wire shape: merged output
// always goes through MergedProduct.
//
// Fields:
//   - ProductID: Identifying code shared with the core store
//   - SKU: Catalog code, when the document carries one
//   - Category: Product category, when the document carries one
//   - Attrs: Remaining document keys, untyped
type DetailRecord struct {
	ProductID string
	SKU       string
	Category  string
	Attrs     map[string]any
}

// detailLiftedKeys are the document keys lifted into DetailRecord's
// typed fields. Everything else stays in Attrs.
var detailLiftedKeys = map[string]struct{}{
	"product_id": {},
	"sku":        {},
	"category":   {},
}

// DetailRecordFromMap builds a DetailRecord from a normalized document
// map, lifting the identifying keys and keeping the remainder in Attrs.
func DetailRecordFromMap(m map[string]any) DetailRecord {
	d := DetailRecord{
		ProductID: stringField(m, "product_id"),
		SKU:       stringField(m, "sku"),
		Category:  stringField(m, "category"),
	}
	for k, v := range m {
		if _, lifted := detailLiftedKeys[k]; lifted {
			continue
		}
		if d.Attrs == nil {
			d.Attrs = make(map[string]any)
		}
		d.Attrs[k] = v
	}
	return d
}

// ApplyTo overlays the detail record onto a merged product. Detail
// fields win on collision: lifted fields overwrite only when the
// detail side carries them, and Attrs entries replace by key. Combined
// with MergedProduct's flat serialization this reproduces a shallow
// details-over-core map merge.
func (d DetailRecord) ApplyTo(p *MergedProduct) {
	if d.ProductID != "" {
		p.ProductID = d.ProductID
	}
	if d.SKU != "" {
		p.SKU = d.SKU
	}
	if d.Category != "" {
		p.Category = d.Category
	}
	if len(d.Attrs) == 0 {
		return
	}
	if p.Attrs == nil {
		p.Attrs = make(map[string]any, len(d.Attrs))
	}
	for k, v := range d.Attrs {
		p.Attrs[k] = v
	}
}

// MergedProduct is the reconciliation engine's output: the superset of
// core and detail fields plus derived enrichment fields. The wire
// encoding is flat. Attrs entries are emitted alongside the named
// fields, and an Attrs entry wins when its key collides with a named
// field, so detail-over-core precedence survives serialization.
//
// Invariant: every MergedProduct returned by the engine has non-empty
// ImageURL and FallbackURL.
//
// Fields:
//   - ProductID, Name, Price, Stock, SKU: Core fields (possibly synthesized)
//   - Category: From the details store, empty when core-only
//   - Source: Origin store label, set only on listing items
//   - SourceNote: Partial/fallback mode note, set only when one side is missing
//   - ImageURL: Derived image reference (full-size or thumbnail variant)
//   - FallbackURL: Configured fallback image, always set after enrichment
//   - TotalViews: Interaction score, set only on ranking responses
//   - Attrs: Open detail attributes carried through verbatim
// The json tags exist for documentation tooling only; the custom
// MarshalJSON below owns the actual encoding.
type MergedProduct struct {
	ProductID   string         `json:"product_id"`
	Name        string         `json:"name"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock"`
	SKU         string         `json:"sku"`
	Category    string         `json:"category,omitempty"`
	Source      string         `json:"source,omitempty"`
	SourceNote  string         `json:"source_note,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	FallbackURL string         `json:"fallback_url,omitempty"`
	TotalViews  int64          `json:"total_views,omitempty"`
	Attrs       map[string]any `json:"-"`
}

// MergedFromCore seeds a merged product from the transactional record.
func MergedFromCore(c CoreRecord) MergedProduct {
	return MergedProduct{
		ProductID: c.ProductID,
		Name:      c.Name,
		Price:     c.Price,
		Stock:     c.Stock,
		SKU:       c.SKU,
	}
}

// mergedNamedKeys are the wire keys bound to named MergedProduct
// fields. UnmarshalJSON uses this set to split a flat object back into
// named fields and Attrs.
var mergedNamedKeys = map[string]struct{}{
	"product_id":   {},
	"name":         {},
	"price":        {},
	"stock":        {},
	"sku":          {},
	"category":     {},
	"source":       {},
	"source_note":  {},
	"image_url":    {},
	"fallback_url": {},
	"total_views":  {},
}

// MarshalJSON encodes the product as a single flat object. Named
// fields are written first, then Attrs entries overlay them, keeping
// detail values authoritative on key collision. Optional fields
// (category, source, source_note, total_views) are omitted when unset.
func (p MergedProduct) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(p.Attrs)+11)
	flat["product_id"] = p.ProductID
	flat["name"] = p.Name
	flat["price"] = p.Price
	flat["stock"] = p.Stock
	flat["sku"] = p.SKU
	if p.Category != "" {
		flat["category"] = p.Category
	}
	if p.Source != "" {
		flat["source"] = p.Source
	}
	if p.SourceNote != "" {
		flat["source_note"] = p.SourceNote
	}
	if p.ImageURL != "" {
		flat["image_url"] = p.ImageURL
	}
	if p.FallbackURL != "" {
		flat["fallback_url"] = p.FallbackURL
	}
	if p.TotalViews > 0 {
		flat["total_views"] = p.TotalViews
	}
	for k, v := range p.Attrs {
		flat[k] = v
	}
	return json.Marshal(flat)
}

// UnmarshalJSON decodes a flat product object, lifting named keys into
// typed fields and collecting the remainder into Attrs. A named key
// absorbed from Attrs during MarshalJSON lands back in its typed field.
func (p *MergedProduct) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	p.ProductID = stringField(flat, "product_id")
	p.Name = stringField(flat, "name")
	p.Price = floatField(flat, "price")
	p.Stock = int(intField(flat, "stock"))
	p.SKU = stringField(flat, "sku")
	p.Category = stringField(flat, "category")
	p.Source = stringField(flat, "source")
	p.SourceNote = stringField(flat, "source_note")
	p.ImageURL = stringField(flat, "image_url")
	p.FallbackURL = stringField(flat, "fallback_url")
	p.TotalViews = intField(flat, "total_views")
	p.Attrs = nil
	for k, v := range flat {
		if _, named := mergedNamedKeys[k]; named {
			continue
		}
		if p.Attrs == nil {
			p.Attrs = make(map[string]any)
		}
		p.Attrs[k] = v
	}
	return nil
}

// stringField returns the string value under key, or "" when the key
// is absent or holds a non-string.
func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// floatField returns the numeric value under key as float64, accepting
// the numeric types JSON decoding and row scans produce.
func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// intField returns the numeric value under key as int64, accepting the
// numeric types JSON decoding and row scans produce.
func intField(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
