// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// flakyCore is a CoreStore whose failure mode can be toggled, with a
// call counter to prove when the breaker short-circuits.
type flakyCore struct {
	mu      sync.Mutex
	failing bool
	calls   int
	pings   int
}

func (f *flakyCore) FetchCore(ctx context.Context, productID string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing {
		return nil, errors.New("core down")
	}
	return []map[string]any{{"product_id": productID}}, nil
}

func (f *flakyCore) ListCore(ctx context.Context) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing {
		return nil, errors.New("core down")
	}
	return []map[string]any{}, nil
}

func (f *flakyCore) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	if f.failing {
		return errors.New("core down")
	}
	return nil
}

func (f *flakyCore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *flakyCore) setFailing(failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = failing
}

func testBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  4,
		FailureRatio: 0.5,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MaxHalfOpen:  1,
	}
}

func TestBreakerCore_PassThrough(t *testing.T) {
	inner := &flakyCore{}
	core := WrapCoreWithBreaker(inner, testBreakerSettings())

	raw, err := core.FetchCore(context.Background(), "p1")
	if err != nil {
		t.Fatalf("FetchCore: %v", err)
	}

	rows, ok := raw.([]map[string]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("payload = %v", raw)
	}
	if rows[0]["product_id"] != "p1" {
		t.Errorf("row = %v", rows[0])
	}
	if core.State() != gobreaker.StateClosed.String() {
		t.Errorf("State = %q, want closed", core.State())
	}
}

func TestBreakerCore_OpensAndShortCircuits(t *testing.T) {
	inner := &flakyCore{failing: true}
	core := WrapCoreWithBreaker(inner, testBreakerSettings())

	// Drive enough failures to trip the breaker.
	for i := 0; i < 5; i++ {
		if _, err := core.FetchCore(context.Background(), "p1"); err == nil {
			t.Fatal("FetchCore succeeded against a failing store")
		}
	}
	if core.State() != gobreaker.StateOpen.String() {
		t.Fatalf("State = %q, want open after repeated failures", core.State())
	}

	// An open breaker must reject without touching the store.
	before := inner.callCount()
	_, err := core.FetchCore(context.Background(), "p1")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if inner.callCount() != before {
		t.Errorf("inner store was called %d more times through an open breaker",
			inner.callCount()-before)
	}
}

func TestBreakerCore_ListSharesBreaker(t *testing.T) {
	inner := &flakyCore{failing: true}
	core := WrapCoreWithBreaker(inner, testBreakerSettings())

	for i := 0; i < 5; i++ {
		_, _ = core.FetchCore(context.Background(), "p1")
	}

	// The listing path rides the same breaker as single fetches.
	_, err := core.ListCore(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("ListCore err = %v, want ErrOpenState", err)
	}
}

func TestBreakerCore_PingBypassesBreaker(t *testing.T) {
	inner := &flakyCore{failing: true}
	core := WrapCoreWithBreaker(inner, testBreakerSettings())

	for i := 0; i < 5; i++ {
		_, _ = core.FetchCore(context.Background(), "p1")
	}
	if core.State() != gobreaker.StateOpen.String() {
		t.Fatalf("State = %q, want open", core.State())
	}

	// Recovery checks must reach the store even while open.
	inner.setFailing(false)
	if err := core.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v, probe must bypass the breaker", err)
	}
	if inner.pings == 0 {
		t.Error("Ping never reached the inner store")
	}
}

func TestBreakerCore_BelowMinRequestsStaysClosed(t *testing.T) {
	inner := &flakyCore{failing: true}
	core := WrapCoreWithBreaker(inner, testBreakerSettings())

	// Fewer failures than the minimum request volume must not trip.
	for i := 0; i < 3; i++ {
		_, _ = core.FetchCore(context.Background(), "p1")
	}
	if core.State() != gobreaker.StateClosed.String() {
		t.Errorf("State = %q, want closed below minimum volume", core.State())
	}
}
