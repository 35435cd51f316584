// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dverne/mercantile/internal/catalog"
	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/gateway"
	"github.com/dverne/mercantile/internal/models"
)

type mockCoreStore struct {
	FetchCoreFunc func(ctx context.Context, productID string) (any, error)
	ListCoreFunc  func(ctx context.Context) (any, error)
}

func (m *mockCoreStore) FetchCore(ctx context.Context, productID string) (any, error) {
	return m.FetchCoreFunc(ctx, productID)
}

func (m *mockCoreStore) ListCore(ctx context.Context) (any, error) {
	return m.ListCoreFunc(ctx)
}

type mockInteractionStore struct {
	InsertFunc     func(ctx context.Context, event models.InteractionEvent) (string, error)
	AggregatesFunc func(ctx context.Context) (any, error)
}

func (m *mockInteractionStore) InsertInteraction(ctx context.Context, event models.InteractionEvent) (string, error) {
	return m.InsertFunc(ctx, event)
}

func (m *mockInteractionStore) FetchInteractionAggregates(ctx context.Context) (any, error) {
	return m.AggregatesFunc(ctx)
}

type mockRankingStore struct {
	MergeFunc func(ctx context.Context, aggregates []models.InteractionAggregate) error
	TopFunc   func(ctx context.Context, n int) (any, error)
}

func (m *mockRankingStore) MergeRankings(ctx context.Context, aggregates []models.InteractionAggregate) error {
	return m.MergeFunc(ctx, aggregates)
}

func (m *mockRankingStore) FetchTopN(ctx context.Context, n int) (any, error) {
	return m.TopFunc(ctx, n)
}

var (
	_ gateway.CoreStore        = (*mockCoreStore)(nil)
	_ gateway.InteractionStore = (*mockInteractionStore)(nil)
	_ gateway.RankingStore     = (*mockRankingStore)(nil)
)

// countingRankingStore additionally exposes the optional row count
// capability the merge log consults.
type countingRankingStore struct {
	mockRankingStore
	CountFunc func(ctx context.Context) (int64, error)
}

func (m *countingRankingStore) CountRankings(ctx context.Context) (int64, error) {
	return m.CountFunc(ctx)
}

func testEnricher() *catalog.Enricher {
	return catalog.NewEnricher(catalog.Config{
		ImageBaseURL:     "https://img.example.com/products",
		FallbackImageURL: "https://img.example.com/missing.jpg",
		PlaceholderSKU:   "SYNTH-001",
	})
}

func aggregatesReturning(raw any, err error) *mockInteractionStore {
	return &mockInteractionStore{
		AggregatesFunc: func(context.Context) (any, error) { return raw, err },
	}
}

func coreRows(rows ...map[string]any) *mockCoreStore {
	byID := make(map[string][]map[string]any, len(rows))
	for _, row := range rows {
		id, _ := row["product_id"].(string)
		byID[id] = []map[string]any{row}
	}
	return &mockCoreStore{
		FetchCoreFunc: func(_ context.Context, productID string) (any, error) {
			return byID[productID], nil
		},
	}
}

func newTestOrchestrator(core gateway.CoreStore, interactions gateway.InteractionStore, rankings gateway.RankingStore, cfg config.AnalyticsConfig) *Orchestrator {
	if core == nil {
		core = coreRows()
	}
	if interactions == nil {
		interactions = aggregatesReturning(nil, nil)
	}
	if rankings == nil {
		rankings = &mockRankingStore{
			MergeFunc: func(context.Context, []models.InteractionAggregate) error { return nil },
			TopFunc:   func(context.Context, int) (any, error) { return nil, nil },
		}
	}
	return NewOrchestrator(core, interactions, rankings, testEnricher(), cfg)
}

func TestRunAggregationMerge(t *testing.T) {
	interactions := aggregatesReturning([]map[string]any{
		{"product_id": "p1", "interaction_count": int64(3)},
		{"product_id": "p2", "interaction_count": int64(1)},
	}, nil)

	var merged []models.InteractionAggregate
	rankings := &mockRankingStore{
		MergeFunc: func(_ context.Context, aggregates []models.InteractionAggregate) error {
			merged = aggregates
			return nil
		},
	}

	orch := newTestOrchestrator(nil, interactions, rankings, config.AnalyticsConfig{})
	processed, err := orch.RunAggregationMerge(context.Background())
	if err != nil {
		t.Fatalf("RunAggregationMerge() error = %v", err)
	}
	if processed != 2 {
		t.Errorf("processed = %d, want 2", processed)
	}

	want := []models.InteractionAggregate{
		{ProductID: "p1", InteractionCount: 3},
		{ProductID: "p2", InteractionCount: 1},
	}
	if len(merged) != len(want) {
		t.Fatalf("merged %d aggregates, want %d", len(merged), len(want))
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Errorf("merged[%d] = %+v, want %+v", i, merged[i], want[i])
		}
	}
}

// TestRunAggregationMerge_TextPayload feeds the aggregates through the
// text-encoded store path; counts arrive as JSON numbers and must
// still coerce.
func TestRunAggregationMerge_TextPayload(t *testing.T) {
	interactions := aggregatesReturning(
		`[{"product_id":"p1","interaction_count":3},{"product_id":"p2","interaction_count":1}]`, nil)

	var merged []models.InteractionAggregate
	rankings := &mockRankingStore{
		MergeFunc: func(_ context.Context, aggregates []models.InteractionAggregate) error {
			merged = aggregates
			return nil
		},
	}

	orch := newTestOrchestrator(nil, interactions, rankings, config.AnalyticsConfig{})
	processed, err := orch.RunAggregationMerge(context.Background())
	if err != nil {
		t.Fatalf("RunAggregationMerge() error = %v", err)
	}
	if processed != 2 {
		t.Errorf("processed = %d, want 2", processed)
	}
	if merged[0].InteractionCount != 3 || merged[1].InteractionCount != 1 {
		t.Errorf("merged counts = %d, %d; want 3, 1", merged[0].InteractionCount, merged[1].InteractionCount)
	}
}

func TestRunAggregationMerge_NoData(t *testing.T) {
	tests := []struct {
		name         string
		interactions *mockInteractionStore
	}{
		{"empty aggregate set", aggregatesReturning([]map[string]any{}, nil)},
		{"nil payload", aggregatesReturning(nil, nil)},
		{"store failure degrades to empty", aggregatesReturning(nil, errors.New("prefix scan failed"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mergeCalled := false
			rankings := &mockRankingStore{
				MergeFunc: func(context.Context, []models.InteractionAggregate) error {
					mergeCalled = true
					return nil
				},
			}

			orch := newTestOrchestrator(nil, tt.interactions, rankings, config.AnalyticsConfig{})
			processed, err := orch.RunAggregationMerge(context.Background())
			if err != nil {
				t.Fatalf("RunAggregationMerge() error = %v, want nil", err)
			}
			if processed != 0 {
				t.Errorf("processed = %d, want 0", processed)
			}
			if mergeCalled {
				t.Error("MergeRankings called with no data")
			}
		})
	}
}

func TestRunAggregationMerge_MergeFailure(t *testing.T) {
	errBoom := errors.New("warehouse is locked")
	interactions := aggregatesReturning([]map[string]any{
		{"product_id": "p1", "interaction_count": int64(3)},
	}, nil)
	rankings := &mockRankingStore{
		MergeFunc: func(context.Context, []models.InteractionAggregate) error { return errBoom },
	}

	orch := newTestOrchestrator(nil, interactions, rankings, config.AnalyticsConfig{})
	processed, err := orch.RunAggregationMerge(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("RunAggregationMerge() error = %v, want wrapped %v", err, errBoom)
	}
	if processed != 0 {
		t.Errorf("processed = %d, want 0 on failure", processed)
	}
}

func TestRunAggregationMerge_CountsAfterMerge(t *testing.T) {
	interactions := aggregatesReturning([]map[string]any{
		{"product_id": "p1", "interaction_count": int64(3)},
	}, nil)

	counted := false
	rankings := &countingRankingStore{
		mockRankingStore: mockRankingStore{
			MergeFunc: func(context.Context, []models.InteractionAggregate) error { return nil },
		},
		CountFunc: func(context.Context) (int64, error) {
			counted = true
			return 42, nil
		},
	}

	orch := newTestOrchestrator(nil, interactions, rankings, config.AnalyticsConfig{})
	if _, err := orch.RunAggregationMerge(context.Background()); err != nil {
		t.Fatalf("RunAggregationMerge() error = %v", err)
	}
	if !counted {
		t.Error("CountRankings not consulted after successful merge")
	}
}

func TestRunAggregationMerge_Throttled(t *testing.T) {
	fetches := 0
	interactions := &mockInteractionStore{
		AggregatesFunc: func(context.Context) (any, error) {
			fetches++
			return []map[string]any{}, nil
		},
	}

	orch := newTestOrchestrator(nil, interactions, nil, config.AnalyticsConfig{
		MinRunInterval: time.Hour,
	})

	if _, err := orch.RunAggregationMerge(context.Background()); err != nil {
		t.Fatalf("first run error = %v", err)
	}
	_, err := orch.RunAggregationMerge(context.Background())
	if !errors.Is(err, ErrRunTooSoon) {
		t.Fatalf("second run error = %v, want ErrRunTooSoon", err)
	}
	if fetches != 1 {
		t.Errorf("interaction store fetched %d times, want 1 (throttled run must not touch stores)", fetches)
	}
}

func TestRunAggregationMerge_ZeroIntervalDisablesThrottle(t *testing.T) {
	interactions := aggregatesReturning([]map[string]any{}, nil)
	orch := newTestOrchestrator(nil, interactions, nil, config.AnalyticsConfig{})

	for i := 0; i < 3; i++ {
		if _, err := orch.RunAggregationMerge(context.Background()); err != nil {
			t.Fatalf("run %d error = %v", i, err)
		}
	}
}

func TestResolveTopN(t *testing.T) {
	rankings := &mockRankingStore{
		TopFunc: func(context.Context, int) (any, error) {
			return []map[string]any{
				{"product_id": "p2", "interaction_score": int64(9)},
				{"product_id": "p1", "interaction_score": int64(5)},
			}, nil
		},
	}
	core := coreRows(
		map[string]any{"product_id": "p1", "name": "Trail Laptop", "price": 1299.99, "stock": 12, "sku": "LP100"},
		map[string]any{"product_id": "p2", "name": "Field Keyboard", "price": 89.5, "stock": 40, "sku": "KB-400"},
	)

	orch := newTestOrchestrator(core, nil, rankings, config.AnalyticsConfig{})
	got, err := orch.ResolveTopN(context.Background(), 5)
	if err != nil {
		t.Fatalf("ResolveTopN() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ResolveTopN() returned %d products, want 2", len(got))
	}

	if got[0].ProductID != "p2" || got[1].ProductID != "p1" {
		t.Errorf("order = %s, %s; want p2, p1 (warehouse order)", got[0].ProductID, got[1].ProductID)
	}
	if got[0].TotalViews != 9 || got[1].TotalViews != 5 {
		t.Errorf("TotalViews = %d, %d; want 9, 5", got[0].TotalViews, got[1].TotalViews)
	}
	if got[0].Name != "Field Keyboard" {
		t.Errorf("Name = %q, want core record name", got[0].Name)
	}
	if want := "https://img.example.com/products/thumbnails/KB-400.jpg"; got[0].ImageURL != want {
		t.Errorf("ImageURL = %q, want %q", got[0].ImageURL, want)
	}
	if got[0].FallbackURL == "" {
		t.Error("FallbackURL empty, enrichment must always set it")
	}
}

func TestResolveTopN_SkipsUnresolvableRows(t *testing.T) {
	rankings := &mockRankingStore{
		TopFunc: func(context.Context, int) (any, error) {
			return []map[string]any{
				{"product_id": "p3", "interaction_score": int64(12)},
				{"product_id": "p9", "interaction_score": int64(8)},
				{"product_id": "p1", "interaction_score": int64(4)},
			}, nil
		},
	}

	tests := []struct {
		name string
		core *mockCoreStore
	}{
		{
			name: "ranked product missing from core",
			core: coreRows(
				map[string]any{"product_id": "p1", "name": "A", "price": 1.0, "stock": 1, "sku": "S1"},
				map[string]any{"product_id": "p3", "name": "C", "price": 3.0, "stock": 3, "sku": "S3"},
			),
		},
		{
			name: "core fetch fails for one row",
			core: &mockCoreStore{
				FetchCoreFunc: func(_ context.Context, productID string) (any, error) {
					if productID == "p9" {
						return nil, errors.New("connection reset")
					}
					return []map[string]any{{"product_id": productID, "name": "X", "price": 1.0, "stock": 1, "sku": "S"}}, nil
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := newTestOrchestrator(tt.core, nil, rankings, config.AnalyticsConfig{})
			got, err := orch.ResolveTopN(context.Background(), 5)
			if err != nil {
				t.Fatalf("ResolveTopN() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("ResolveTopN() returned %d products, want 2 (p9 skipped)", len(got))
			}
			if got[0].ProductID != "p3" || got[1].ProductID != "p1" {
				t.Errorf("order = %s, %s; surviving rows must keep warehouse order", got[0].ProductID, got[1].ProductID)
			}
		})
	}
}

func TestResolveTopN_LimitBounds(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		cfg       config.AnalyticsConfig
		wantFetch int
	}{
		{"zero selects default", 0, config.AnalyticsConfig{TopDefaultLimit: 5, TopMaxLimit: 100}, 5},
		{"negative selects default", -3, config.AnalyticsConfig{TopDefaultLimit: 5, TopMaxLimit: 100}, 5},
		{"explicit passes through", 7, config.AnalyticsConfig{TopDefaultLimit: 5, TopMaxLimit: 100}, 7},
		{"above max is capped", 500, config.AnalyticsConfig{TopDefaultLimit: 5, TopMaxLimit: 100}, 100},
		{"unset config falls back", 0, config.AnalyticsConfig{}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fetched int
			rankings := &mockRankingStore{
				TopFunc: func(_ context.Context, n int) (any, error) {
					fetched = n
					return []map[string]any{}, nil
				},
			}

			orch := newTestOrchestrator(nil, nil, rankings, tt.cfg)
			if _, err := orch.ResolveTopN(context.Background(), tt.n); err != nil {
				t.Fatalf("ResolveTopN() error = %v", err)
			}
			if fetched != tt.wantFetch {
				t.Errorf("FetchTopN asked for %d rows, want %d", fetched, tt.wantFetch)
			}
		})
	}
}

func TestResolveTopN_WarehouseFailure(t *testing.T) {
	errBoom := errors.New("warehouse offline")
	rankings := &mockRankingStore{
		TopFunc: func(context.Context, int) (any, error) { return nil, errBoom },
	}

	orch := newTestOrchestrator(nil, nil, rankings, config.AnalyticsConfig{})
	_, err := orch.ResolveTopN(context.Background(), 5)
	if !errors.Is(err, errBoom) {
		t.Fatalf("ResolveTopN() error = %v, want wrapped %v", err, errBoom)
	}
}

func TestResolveTopN_EmptyWarehouse(t *testing.T) {
	rankings := &mockRankingStore{
		TopFunc: func(context.Context, int) (any, error) { return []map[string]any{}, nil },
	}

	orch := newTestOrchestrator(nil, nil, rankings, config.AnalyticsConfig{})
	got, err := orch.ResolveTopN(context.Background(), 5)
	if err != nil {
		t.Fatalf("ResolveTopN() error = %v", err)
	}
	if got == nil {
		t.Fatal("ResolveTopN() returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("ResolveTopN() returned %d products, want 0", len(got))
	}
}

// TestResolveTopN_SentinelSKU verifies ranked products with unusable
// SKUs get the fallback image instead of a sentinel-bearing URL.
func TestResolveTopN_SentinelSKU(t *testing.T) {
	rankings := &mockRankingStore{
		TopFunc: func(context.Context, int) (any, error) {
			return []map[string]any{{"product_id": "p5", "interaction_score": int64(2)}}, nil
		},
	}
	core := coreRows(
		map[string]any{"product_id": "p5", "name": "Mystery Item", "price": 5.0, "stock": 1, "sku": "N/A"},
	)

	orch := newTestOrchestrator(core, nil, rankings, config.AnalyticsConfig{})
	got, err := orch.ResolveTopN(context.Background(), 1)
	if err != nil {
		t.Fatalf("ResolveTopN() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ResolveTopN() returned %d products, want 1", len(got))
	}
	if strings.Contains(got[0].ImageURL, "N/A") {
		t.Errorf("ImageURL = %q, sentinel must not reach the URL", got[0].ImageURL)
	}
	if got[0].ImageURL != "https://img.example.com/missing.jpg" {
		t.Errorf("ImageURL = %q, want fallback", got[0].ImageURL)
	}
}
