// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package catalog

import (
	"errors"
	"testing"
)

func TestFirst(t *testing.T) {
	storeErr := errors.New("connection refused")

	tests := []struct {
		name       string
		raw        any
		err        error
		wantKind   ResultKind
		wantFields map[string]any
		wantErr    error
	}{
		{
			name:     "store error wins over payload",
			raw:      []map[string]any{{"product_id": "sku-1001"}},
			err:      storeErr,
			wantKind: Failed,
			wantErr:  storeErr,
		},
		{
			name:     "nil payload is clean absence",
			raw:      nil,
			err:      nil,
			wantKind: NoRecord,
		},
		{
			name:     "empty native rows is clean absence",
			raw:      []map[string]any{},
			err:      nil,
			wantKind: NoRecord,
		},
		{
			name:       "native rows take the first",
			raw:        []map[string]any{{"product_id": "sku-1001"}, {"product_id": "sku-1002"}},
			err:        nil,
			wantKind:   Record,
			wantFields: map[string]any{"product_id": "sku-1001"},
		},
		{
			name:       "json text decodes to first row",
			raw:        `[{"product_id":"sku-2001","price":19.99}]`,
			err:        nil,
			wantKind:   Record,
			wantFields: map[string]any{"product_id": "sku-2001", "price": 19.99},
		},
		{
			name:       "byte payload decodes like text",
			raw:        []byte(`[{"product_id":"sku-2002"}]`),
			err:        nil,
			wantKind:   Record,
			wantFields: map[string]any{"product_id": "sku-2002"},
		},
		{
			name:     "garbage text is absence not failure",
			raw:      `{{{not json`,
			err:      nil,
			wantKind: NoRecord,
		},
		{
			name:     "json object text is absence",
			raw:      `{"product_id":"sku-3001"}`,
			err:      nil,
			wantKind: NoRecord,
		},
		{
			name:     "empty json array is absence",
			raw:      `[]`,
			err:      nil,
			wantKind: NoRecord,
		},
		{
			name:     "null-only array is absence",
			raw:      `[null]`,
			err:      nil,
			wantKind: NoRecord,
		},
		{
			name:     "empty string is absence",
			raw:      "",
			err:      nil,
			wantKind: NoRecord,
		},
		{
			name:       "generic slice keeps only map elements",
			raw:        []any{"noise", 42, map[string]any{"product_id": "sku-4001"}},
			err:        nil,
			wantKind:   Record,
			wantFields: map[string]any{"product_id": "sku-4001"},
		},
		{
			name:     "unsupported shape is absence",
			raw:      map[string]any{"product_id": "sku-5001"},
			err:      nil,
			wantKind: NoRecord,
		},
		{
			name:     "numeric payload is absence",
			raw:      42.0,
			err:      nil,
			wantKind: NoRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := First(tt.raw, tt.err)

			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %d, want %d", got.Kind, tt.wantKind)
			}
			if !errors.Is(got.Err, tt.wantErr) && got.Err != tt.wantErr {
				t.Errorf("Err = %v, want %v", got.Err, tt.wantErr)
			}
			if tt.wantFields != nil {
				if got.Fields == nil {
					t.Fatal("Fields is nil, want a record")
				}
				for k, want := range tt.wantFields {
					if got.Fields[k] != want {
						t.Errorf("Fields[%q] = %v, want %v", k, got.Fields[k], want)
					}
				}
			}
			if tt.wantKind != Record && got.Fields != nil {
				t.Errorf("Fields = %v, want nil for non-record result", got.Fields)
			}
		})
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		err     error
		wantLen int
	}{
		{
			name:    "error yields empty list",
			raw:     []map[string]any{{"product_id": "sku-1001"}},
			err:     errors.New("store down"),
			wantLen: 0,
		},
		{
			name:    "native rows pass through",
			raw:     []map[string]any{{"product_id": "a"}, {"product_id": "b"}},
			wantLen: 2,
		},
		{
			name:    "json text decodes all rows",
			raw:     `[{"product_id":"a"},{"product_id":"b"},{"product_id":"c"}]`,
			wantLen: 3,
		},
		{
			name:    "generic slice drops non-maps",
			raw:     []any{map[string]any{"product_id": "a"}, "junk", map[string]any{"product_id": "b"}},
			wantLen: 2,
		},
		{
			name:    "json null elements are dropped",
			raw:     `[{"product_id":"a"},null,{"product_id":"b"}]`,
			wantLen: 2,
		},
		{
			name:    "nil payload is empty",
			raw:     nil,
			wantLen: 0,
		},
		{
			name:    "garbage text is empty",
			raw:     `[{"broken"`,
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := List(tt.raw, tt.err)
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestList_PreservesRowOrder(t *testing.T) {
	raw := `[{"product_id":"first"},{"product_id":"second"},{"product_id":"third"}]`

	rows := List(raw, nil)

	want := []string{"first", "second", "third"}
	if len(rows) != len(want) {
		t.Fatalf("len = %d, want %d", len(rows), len(want))
	}
	for i, id := range want {
		if rows[i]["product_id"] != id {
			t.Errorf("rows[%d] = %v, want product_id %q", i, rows[i], id)
		}
	}
}
