// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package catalog

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/metrics"
)

// ResultKind classifies a normalized single-record fetch.
type ResultKind int

const (
	// NoRecord means the store answered cleanly with zero rows.
	NoRecord ResultKind = iota

	// Record means exactly the first row was captured in Fields.
	Record

	// Failed means the store call itself errored. Fields is nil and
	// Err holds the cause.
	Failed
)

// Result is the outcome of normalizing one store fetch. Only one of
// Fields and Err is ever set; a NoRecord result carries neither.
type Result struct {
	Kind   ResultKind
	Fields map[string]any
	Err    error
}

// First normalizes a single-product fetch. The store error, when
// present, wins over any payload. Otherwise the raw payload is decoded
// to rows and the first row becomes the record; zero rows is a clean
// absence. Malformed payloads are logged and treated as absence so one
// corrupt row never takes out a request.
func First(raw any, err error) Result {
	if err != nil {
		return Result{Kind: Failed, Err: err}
	}
	rows := decodeRows(raw)
	if len(rows) == 0 || rows[0] == nil {
		return Result{Kind: NoRecord}
	}
	return Result{Kind: Record, Fields: rows[0]}
}

// List normalizes a multi-row payload. Callers handle store errors
// before decoding; a non-nil err yields an empty list.
func List(raw any, err error) []map[string]any {
	if err != nil {
		return nil
	}
	return decodeRows(raw)
}

// decodeRows coerces the store payload shapes into row maps:
//
//   - []map[string]any passes through
//   - []any keeps only its map elements
//   - string and []byte decode as a JSON array of objects
//   - nil and anything undecodable become zero rows
//
// Decode failures increment a counter rather than propagating; the
// stores are external and their payloads are not trusted to parse.
func decodeRows(raw any) []map[string]any {
	switch v := raw.(type) {
	case nil:
		return nil
	case []map[string]any:
		return v
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok && m != nil {
				rows = append(rows, m)
			}
		}
		return rows
	case string:
		return decodeText([]byte(v))
	case []byte:
		return decodeText(v)
	default:
		logging.Warn().
			Str("component", "normalizer").
			Str("payload_type", fmt.Sprintf("%T", raw)).
			Msg("unsupported store payload shape, treating as empty")
		return nil
	}
}

func decodeText(data []byte) []map[string]any {
	if len(data) == 0 {
		return nil
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		metrics.NormalizerDecodeFailures.Inc()
		logging.Warn().
			Str("component", "normalizer").
			Err(err).
			Msg("store payload failed to decode, treating as empty")
		return nil
	}
	// JSON null elements decode to nil maps; they carry no fields and
	// are dropped rather than served as empty records.
	out := rows[:0]
	for _, r := range rows {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
