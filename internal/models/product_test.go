// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package models

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

// TestCoreRecordFromMap tests field lifting and numeric coercion from
// normalized row maps.
func TestCoreRecordFromMap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   map[string]any
		want CoreRecord
	}{
		{
			name: "json decoded numerics",
			in: map[string]any{
				"product_id": "p1",
				"name":       "Trail Shoe",
				"price":      129.99,
				"stock":      float64(12),
				"sku":        "SHOE-01",
			},
			want: CoreRecord{ProductID: "p1", Name: "Trail Shoe", Price: 129.99, Stock: 12, SKU: "SHOE-01"},
		},
		{
			name: "native row scan numerics",
			in: map[string]any{
				"product_id": "p2",
				"name":       "Field Watch",
				"price":      float32(49.5),
				"stock":      int64(3),
				"sku":        "WATCH-02",
			},
			want: CoreRecord{ProductID: "p2", Name: "Field Watch", Price: 49.5, Stock: 3, SKU: "WATCH-02"},
		},
		{
			name: "missing keys zero valued",
			in:   map[string]any{"product_id": "p3"},
			want: CoreRecord{ProductID: "p3"},
		},
		{
			name: "mistyped values ignored",
			in: map[string]any{
				"product_id": 7,
				"name":       nil,
				"price":      "expensive",
				"stock":      "many",
				"sku":        []any{"x"},
			},
			want: CoreRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoreRecordFromMap(tt.in)
			if got != tt.want {
				t.Errorf("CoreRecordFromMap() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestDetailRecordFromMap tests that identifying keys are lifted and
// every other document key lands in Attrs.
func TestDetailRecordFromMap(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"product_id": "p1",
		"sku":        "SHOE-01",
		"category":   "Footwear",
		"color":      "blue",
		"sizes":      []any{"8", "9"},
	}

	d := DetailRecordFromMap(in)

	if d.ProductID != "p1" {
		t.Errorf("ProductID = %q, want p1", d.ProductID)
	}
	if d.SKU != "SHOE-01" {
		t.Errorf("SKU = %q, want SHOE-01", d.SKU)
	}
	if d.Category != "Footwear" {
		t.Errorf("Category = %q, want Footwear", d.Category)
	}
	if len(d.Attrs) != 2 {
		t.Fatalf("len(Attrs) = %d, want 2 (got %+v)", len(d.Attrs), d.Attrs)
	}
	if d.Attrs["color"] != "blue" {
		t.Errorf("Attrs[color] = %v, want blue", d.Attrs["color"])
	}
	for _, lifted := range []string{"product_id", "sku", "category"} {
		if _, ok := d.Attrs[lifted]; ok {
			t.Errorf("lifted key %q must not appear in Attrs", lifted)
		}
	}
}

// TestDetailRecordFromMapEmpty tests that an empty document produces a
// record with nil Attrs rather than an allocated empty map.
func TestDetailRecordFromMapEmpty(t *testing.T) {
	t.Parallel()

	d := DetailRecordFromMap(map[string]any{})
	if d.Attrs != nil {
		t.Errorf("Attrs = %v, want nil", d.Attrs)
	}
}

// TestDetailRecordApplyTo tests detail-over-core precedence when
// overlaying a detail record onto a merged product.
func TestDetailRecordApplyTo(t *testing.T) {
	t.Parallel()

	t.Run("detail fields overwrite when present", func(t *testing.T) {
		p := MergedFromCore(CoreRecord{ProductID: "p1", Name: "Trail Shoe", Price: 129.99, Stock: 12, SKU: "CORE-SKU"})
		d := DetailRecord{ProductID: "p1", SKU: "DETAIL-SKU", Category: "Footwear"}

		d.ApplyTo(&p)

		if p.SKU != "DETAIL-SKU" {
			t.Errorf("SKU = %q, want DETAIL-SKU", p.SKU)
		}
		if p.Category != "Footwear" {
			t.Errorf("Category = %q, want Footwear", p.Category)
		}
		if p.Name != "Trail Shoe" || p.Price != 129.99 || p.Stock != 12 {
			t.Errorf("core-only fields changed: %+v", p)
		}
	})

	t.Run("absent detail fields keep core values", func(t *testing.T) {
		p := MergedFromCore(CoreRecord{ProductID: "p1", SKU: "CORE-SKU"})
		d := DetailRecord{Attrs: map[string]any{"color": "blue"}}

		d.ApplyTo(&p)

		if p.ProductID != "p1" {
			t.Errorf("ProductID = %q, want p1", p.ProductID)
		}
		if p.SKU != "CORE-SKU" {
			t.Errorf("SKU = %q, want CORE-SKU", p.SKU)
		}
		if p.Attrs["color"] != "blue" {
			t.Errorf("Attrs[color] = %v, want blue", p.Attrs["color"])
		}
	})

	t.Run("attrs merge into existing map", func(t *testing.T) {
		p := MergedProduct{Attrs: map[string]any{"color": "red", "weight": "1kg"}}
		d := DetailRecord{Attrs: map[string]any{"color": "blue"}}

		d.ApplyTo(&p)

		if p.Attrs["color"] != "blue" {
			t.Errorf("Attrs[color] = %v, want blue (detail wins)", p.Attrs["color"])
		}
		if p.Attrs["weight"] != "1kg" {
			t.Errorf("Attrs[weight] = %v, want 1kg (untouched)", p.Attrs["weight"])
		}
	})
}

// TestMergedProductMarshalFlat tests that serialization produces a
// single flat object with Attrs entries alongside the named fields.
func TestMergedProductMarshalFlat(t *testing.T) {
	t.Parallel()

	p := MergedProduct{
		ProductID:   "p1",
		Name:        "Trail Shoe",
		Price:       129.99,
		Stock:       12,
		SKU:         "SHOE-01",
		Category:    "Footwear",
		ImageURL:    "https://img.example.com/SHOE-01.jpg",
		FallbackURL: "https://img.example.com/placeholder.jpg",
		Attrs:       map[string]any{"color": "blue"},
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if flat["product_id"] != "p1" {
		t.Errorf("product_id = %v, want p1", flat["product_id"])
	}
	if flat["color"] != "blue" {
		t.Errorf("color = %v, want blue (attrs must flatten)", flat["color"])
	}
	if _, nested := flat["attrs"]; nested {
		t.Error("attrs must not appear as a nested object")
	}
	if flat["price"] != 129.99 {
		t.Errorf("price = %v, want 129.99", flat["price"])
	}
}

// TestMergedProductMarshalAttrsWin tests that an Attrs entry overrides
// a named field of the same key, preserving detail-over-core
// precedence through serialization.
func TestMergedProductMarshalAttrsWin(t *testing.T) {
	t.Parallel()

	p := MergedProduct{
		ProductID: "p1",
		Name:      "Core Name",
		Price:     10,
		Attrs:     map[string]any{"name": "Detail Name", "price": 12.5},
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if flat["name"] != "Detail Name" {
		t.Errorf("name = %v, want Detail Name", flat["name"])
	}
	if flat["price"] != 12.5 {
		t.Errorf("price = %v, want 12.5", flat["price"])
	}
}

// TestMergedProductMarshalOmitsUnset tests that optional fields stay
// off the wire when unset.
func TestMergedProductMarshalOmitsUnset(t *testing.T) {
	t.Parallel()

	p := MergedProduct{ProductID: "p1", Name: "Trail Shoe", Price: 129.99, Stock: 12, SKU: "SHOE-01"}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"category", "source", "source_note", "total_views", "image_url", "fallback_url"} {
		if _, present := flat[key]; present {
			t.Errorf("unset optional field %q must be omitted", key)
		}
	}
	for _, key := range []string{"product_id", "name", "price", "stock", "sku"} {
		if _, present := flat[key]; !present {
			t.Errorf("named field %q must always be present", key)
		}
	}
}

// TestMergedProductMarshalRankingFields tests the fields specific to
// ranking responses.
func TestMergedProductMarshalRankingFields(t *testing.T) {
	t.Parallel()

	p := MergedProduct{
		ProductID:  "p1",
		Name:       "Trail Shoe",
		SKU:        "SHOE-01",
		TotalViews: 42,
		ImageURL:   "https://img.example.com/thumbnails/SHOE-01.jpg",
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if flat["total_views"] != float64(42) {
		t.Errorf("total_views = %v, want 42", flat["total_views"])
	}
}

// TestMergedProductUnmarshalSplitsAttrs tests that decoding a flat
// object lifts named keys and routes the remainder into Attrs.
func TestMergedProductUnmarshalSplitsAttrs(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"product_id": "p1",
		"name": "Trail Shoe",
		"price": 129.99,
		"stock": 12,
		"sku": "SHOE-01",
		"category": "Footwear",
		"source_note": "PARTIAL MODE: Badger details missing.",
		"color": "blue",
		"material": "mesh"
	}`)

	var p MergedProduct
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if p.ProductID != "p1" || p.Name != "Trail Shoe" || p.Price != 129.99 || p.Stock != 12 {
		t.Errorf("named fields not lifted: %+v", p)
	}
	if p.SourceNote != SourceNotePartial {
		t.Errorf("SourceNote = %q, want %q", p.SourceNote, SourceNotePartial)
	}
	want := map[string]any{"color": "blue", "material": "mesh"}
	if !reflect.DeepEqual(p.Attrs, want) {
		t.Errorf("Attrs = %+v, want %+v", p.Attrs, want)
	}
}

// TestMergedProductRoundTrip tests that marshal followed by unmarshal
// reproduces the product, with colliding Attrs keys absorbed into
// their named fields.
func TestMergedProductRoundTrip(t *testing.T) {
	t.Parallel()

	in := MergedProduct{
		ProductID:   "p1",
		Name:        "Trail Shoe",
		Price:       129.99,
		Stock:       12,
		SKU:         "SHOE-01",
		Category:    "Footwear",
		Source:      SourceCore,
		ImageURL:    "https://img.example.com/SHOE-01.jpg",
		FallbackURL: "https://img.example.com/placeholder.jpg",
		Attrs:       map[string]any{"color": "blue"},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out MergedProduct
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in = %+v\nout = %+v", in, out)
	}
}
