// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/metrics"
	"github.com/dverne/mercantile/internal/models"
)

// Key prefixes for the two keyspaces sharing one Badger instance.
const (
	detailKeyPrefix      = "details:"
	interactionKeyPrefix = "interaction:"
)

// defaultGCDiscardRatio is used when the config leaves the ratio unset.
const defaultGCDiscardRatio = 0.5

// BadgerStore carries the schema-open product documents and the
// append-only interaction log. Documents are stored as raw JSON under
// details:<product_id>; events under interaction:<uuid>.
//
// Reads return JSON text rather than decoded rows: the documents are
// schema-open and the catalog normalizer owns the decode.
type BadgerStore struct {
	db             *badger.DB
	gcDiscardRatio float64
}

var (
	_ DetailStore      = (*BadgerStore)(nil)
	_ InteractionStore = (*BadgerStore)(nil)
)

// NewBadgerStore opens (or creates) the document store at the
// configured path. InMemory mode backs tests and ephemeral deploys.
func NewBadgerStore(cfg config.BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	ratio := cfg.GCDiscardRatio
	if ratio <= 0 {
		ratio = defaultGCDiscardRatio
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("badger document store opened")

	return &BadgerStore{db: db, gcDiscardRatio: ratio}, nil
}

// FetchDetails returns the document for one product as a one-element
// JSON array, or nil when no document exists.
func (s *BadgerStore) FetchDetails(ctx context.Context, productID string) (any, error) {
	start := time.Now()
	var doc []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(detailKeyPrefix + productID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get details: %w", err)
		}
		return item.Value(func(val []byte) error {
			doc = append([]byte(nil), val...)
			return nil
		})
	})
	metrics.RecordStoreQuery("badger", "fetch_details", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	out := make([]byte, 0, len(doc)+2)
	out = append(out, '[')
	out = append(out, doc...)
	out = append(out, ']')
	return out, nil
}

// ListDetails returns every document as one JSON array string.
func (s *BadgerStore) ListDetails(ctx context.Context) (any, error) {
	start := time.Now()
	var buf bytes.Buffer
	buf.WriteByte('[')
	n := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(detailKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				if n > 0 {
					buf.WriteByte(',')
				}
				buf.Write(val)
				n++
				return nil
			})
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
		}
		return nil
	})
	metrics.RecordStoreQuery("badger", "list_details", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	buf.WriteByte(']')
	return buf.String(), nil
}

// CategoryStats counts the documents carrying one category and the
// interaction events their products accumulated.
func (s *BadgerStore) CategoryStats(ctx context.Context, category string) (models.CategoryStats, error) {
	start := time.Now()
	stats := models.CategoryStats{Category: category}
	members := make(map[string]struct{})

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(detailKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var doc map[string]any
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			})
			if err != nil {
				continue
			}
			if doc["category"] != category {
				continue
			}
			stats.TotalProducts++
			if id, ok := doc["product_id"].(string); ok && id != "" {
				members[id] = struct{}{}
			}
		}

		prefix = []byte(interactionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var event models.InteractionEvent
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			})
			if err != nil {
				continue
			}
			if _, ok := members[event.ProductID]; ok {
				stats.TotalViews++
			}
		}
		return nil
	})
	metrics.RecordStoreQuery("badger", "category_stats", time.Since(start), err)
	if err != nil {
		return models.CategoryStats{}, fmt.Errorf("aggregate category %s: %w", category, err)
	}
	return stats, nil
}

// InsertInteraction appends one event under a fresh UUID key and
// returns that ID. The stored document carries the ID so the event
// log is self-describing.
func (s *BadgerStore) InsertInteraction(ctx context.Context, event models.InteractionEvent) (string, error) {
	start := time.Now()
	id := uuid.New().String()
	event.ID = id

	data, err := json.Marshal(&event)
	if err != nil {
		return "", fmt.Errorf("marshal interaction: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(interactionKeyPrefix+id), data)
	})
	metrics.RecordStoreQuery("badger", "insert_interaction", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("set interaction: %w", err)
	}
	return id, nil
}

// FetchInteractionAggregates walks the whole event log and recomputes
// per-product view counts. Rows come back sorted by product ID so
// repeated runs produce identical output for identical logs.
func (s *BadgerStore) FetchInteractionAggregates(ctx context.Context) (any, error) {
	start := time.Now()
	counts := make(map[string]int64)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(interactionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var event models.InteractionEvent
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			})
			if err != nil || event.ProductID == "" {
				continue
			}
			counts[event.ProductID]++
		}
		return nil
	})
	metrics.RecordStoreQuery("badger", "fetch_aggregates", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("aggregate interactions: %w", err)
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, map[string]any{
			"product_id":        id,
			"interaction_count": counts[id],
		})
	}
	return out, nil
}

// SeedDetails stores documents keyed by their product_id field.
// Documents without one are rejected; partial seeds do not happen.
func (s *BadgerStore) SeedDetails(ctx context.Context, docs []map[string]any) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for i, doc := range docs {
			id, ok := doc["product_id"].(string)
			if !ok || id == "" {
				return fmt.Errorf("document %d has no product_id", i)
			}
			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("marshal document %s: %w", id, err)
			}
			if err := txn.Set([]byte(detailKeyPrefix+id), data); err != nil {
				return fmt.Errorf("set document %s: %w", id, err)
			}
		}
		return nil
	})
}

// RunGC reclaims value-log space. Called periodically by the GC
// service; in-memory instances make it a no-op.
func (s *BadgerStore) RunGC() error {
	for {
		err := s.db.RunValueLogGC(s.gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("badger gc: %w", err)
		}
	}
}

// Ping reports whether the store is usable.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger store is closed")
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}
