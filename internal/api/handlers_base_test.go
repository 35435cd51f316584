// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/dverne/mercantile/internal/analytics"
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

type mockDetailStore struct {
	FetchDetailsFunc  func(ctx context.Context, productID string) (any, error)
	ListDetailsFunc   func(ctx context.Context) (any, error)
	CategoryStatsFunc func(ctx context.Context, category string) (models.CategoryStats, error)
}

func (m *mockDetailStore) FetchDetails(ctx context.Context, productID string) (any, error) {
	return m.FetchDetailsFunc(ctx, productID)
}

func (m *mockDetailStore) ListDetails(ctx context.Context) (any, error) {
	return m.ListDetailsFunc(ctx)
}

func (m *mockDetailStore) CategoryStats(ctx context.Context, category string) (models.CategoryStats, error) {
	return m.CategoryStatsFunc(ctx, category)
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

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error {
	return m.err
}

var (
	_ gateway.CoreStore        = (*mockCoreStore)(nil)
	_ gateway.DetailStore      = (*mockDetailStore)(nil)
	_ gateway.InteractionStore = (*mockInteractionStore)(nil)
	_ gateway.RankingStore     = (*mockRankingStore)(nil)
	_ gateway.Pinger           = (*mockPinger)(nil)
)

// testStores bundles one mock per backing store. The defaults serve a
// two-product core catalog, one details-only document, and an empty
// warehouse; tests override individual funcs to shape failures.
type testStores struct {
	core         *mockCoreStore
	details      *mockDetailStore
	interactions *mockInteractionStore
	rankings     *mockRankingStore
}

func defaultTestStores() *testStores {
	coreRows := []map[string]any{
		{"product_id": "p1", "name": "Desk Lamp", "price": 24.5, "stock": 12, "sku": "LAMP-01"},
		{"product_id": "p2", "name": "Office Chair", "price": 199.0, "stock": 3, "sku": "CHAIR-02"},
	}
	// The details list carries only the details-exclusive document;
	// fetch additionally serves an enrichment document for p1 so the
	// full-merge path is reachable.
	detailDocs := []map[string]any{
		{"product_id": "p1", "category": "Lighting", "sku": "LAMP-01", "material": "steel"},
		{"product_id": "p9", "category": "Storage", "sku": "BOX-09", "material": "steel"},
	}
	detailRows := detailDocs[1:]

	return &testStores{
		core: &mockCoreStore{
			FetchCoreFunc: func(_ context.Context, productID string) (any, error) {
				for _, row := range coreRows {
					if row["product_id"] == productID {
						return []map[string]any{row}, nil
					}
				}
				return []map[string]any{}, nil
			},
			ListCoreFunc: func(context.Context) (any, error) {
				return coreRows, nil
			},
		},
		details: &mockDetailStore{
			FetchDetailsFunc: func(_ context.Context, productID string) (any, error) {
				for _, row := range detailDocs {
					if row["product_id"] == productID {
						return []map[string]any{row}, nil
					}
				}
				return []map[string]any{}, nil
			},
			ListDetailsFunc: func(context.Context) (any, error) {
				return detailRows, nil
			},
			CategoryStatsFunc: func(_ context.Context, category string) (models.CategoryStats, error) {
				return models.CategoryStats{Category: category, TotalProducts: 4, TotalViews: 17}, nil
			},
		},
		interactions: &mockInteractionStore{
			InsertFunc: func(context.Context, models.InteractionEvent) (string, error) {
				return "evt-0001", nil
			},
			AggregatesFunc: func(context.Context) (any, error) {
				return []map[string]any{}, nil
			},
		},
		rankings: &mockRankingStore{
			MergeFunc: func(context.Context, []models.InteractionAggregate) error {
				return nil
			},
			TopFunc: func(context.Context, int) (any, error) {
				return []map[string]any{}, nil
			},
		},
	}
}

func testCatalogConfig() catalog.Config {
	return catalog.Config{
		ImageBaseURL:     "https://img.test/products",
		PlaceholderPrice: 39.99,
		PlaceholderStock: 999,
		PlaceholderSKU:   "SYNTH-001",
		DefaultCategory:  "Generic",
		DefaultUserID:    "User",
	}
}

// newTestHandler wires a Handler over the given mocks with healthy
// pingers. Callers mutate stores before issuing requests.
func newTestHandler(t *testing.T, stores *testStores) *Handler {
	t.Helper()

	return newTestHandlerCfg(t, stores, &config.Config{
		Catalog: config.CatalogConfig{
			FetchTimeout: 2 * time.Second,
		},
		Analytics: config.AnalyticsConfig{
			TopDefaultLimit: 5,
			TopMaxLimit:     100,
		},
	})
}

// newTestHandlerCfg is newTestHandler with an explicit config, for
// tests exercising throttling and limit settings.
func newTestHandlerCfg(t *testing.T, stores *testStores, cfg *config.Config) *Handler {
	t.Helper()

	ccfg := testCatalogConfig()
	engine := catalog.NewEngine(stores.core, stores.details, ccfg)
	recorder := catalog.NewRecorder(stores.interactions, nil, ccfg)
	orchestrator := analytics.NewOrchestrator(
		stores.core, stores.interactions, stores.rankings,
		catalog.NewEnricher(ccfg), cfg.Analytics,
	)

	pingers := StorePingers{
		Core:     &mockPinger{},
		Details:  &mockPinger{},
		Rankings: &mockPinger{},
	}

	return NewHandler(engine, recorder, orchestrator, stores.details, pingers, cfg)
}

// decodeEnvelope reads the recorded response body into the standard
// envelope, failing the test on malformed JSON.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()

	var response models.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return response
}

// withURLParam attaches a chi route parameter so handlers using
// chi.URLParam can be called without a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// dataList re-marshals the envelope's Data field into product maps.
func dataList(t *testing.T, data interface{}) []map[string]any {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to re-marshal data: %v", err)
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		t.Fatalf("Data is not a list: %v", err)
	}
	return items
}

// dataMap re-marshals the envelope's Data field into a single map.
func dataMap(t *testing.T, data interface{}) map[string]any {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to re-marshal data: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Data is not an object: %v", err)
	}
	return m
}

// TestNewHandler tests the NewHandler constructor
func TestNewHandler(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, defaultTestStores())

	if handler == nil {
		t.Fatal("NewHandler returned nil")
	}
	if handler.perfMon == nil {
		t.Error("Expected performance monitor to be initialized")
	}
	if handler.startTime.IsZero() {
		t.Error("Expected start time to be set")
	}
	if handler.fetchTimeout() != 2*time.Second {
		t.Errorf("Expected configured fetch timeout, got %v", handler.fetchTimeout())
	}
}

// TestFetchTimeoutDefault verifies the fallback deadline when no
// config is wired.
func TestFetchTimeoutDefault(t *testing.T) {
	t.Parallel()

	h := &Handler{}
	if h.fetchTimeout() != 5*time.Second {
		t.Errorf("Expected 5s default fetch timeout, got %v", h.fetchTimeout())
	}
}

// TestGetPerformanceStats tests the stats accessor in both monitor states
func TestGetPerformanceStats(t *testing.T) {
	t.Parallel()

	t.Run("with active monitor", func(t *testing.T) {
		handler := newTestHandler(t, defaultTestStores())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		handler.perfMon.Middleware(noop).ServeHTTP(w, req)

		if stats := handler.GetPerformanceStats(); len(stats) == 0 {
			t.Error("Expected stats after a monitored request")
		}
	})

	t.Run("nil monitor returns nil", func(t *testing.T) {
		handler := &Handler{perfMon: nil}
		if stats := handler.GetPerformanceStats(); stats != nil {
			t.Error("Expected nil stats for nil monitor")
		}
	})
}
