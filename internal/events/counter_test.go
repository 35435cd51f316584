// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package events

import (
	"sync"
	"testing"
)

func TestThresholdCounterTripsAtThreshold(t *testing.T) {
	c := newThresholdCounter(3)

	for i := 1; i <= 2; i++ {
		pending, tripped := c.Observe()
		if tripped {
			t.Fatalf("Observation %d tripped before threshold", i)
		}
		if pending != i {
			t.Errorf("Observation %d: expected pending=%d, got %d", i, i, pending)
		}
	}

	pending, tripped := c.Observe()
	if !tripped {
		t.Fatal("Expected third observation to trip")
	}
	if pending != 3 {
		t.Errorf("Expected pending=3 at trip, got %d", pending)
	}
	if c.Pending() != 0 {
		t.Errorf("Expected pending reset to 0 after trip, got %d", c.Pending())
	}
}

func TestThresholdCounterResetsWindow(t *testing.T) {
	c := newThresholdCounter(2)

	trips := 0
	for i := 0; i < 6; i++ {
		if _, tripped := c.Observe(); tripped {
			trips++
		}
	}

	if trips != 3 {
		t.Errorf("Expected 3 trips over 6 observations, got %d", trips)
	}
}

func TestThresholdCounterFloorsAtOne(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
	}{
		{name: "zero", threshold: 0},
		{name: "negative", threshold: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newThresholdCounter(tt.threshold)
			if c.Threshold() != 1 {
				t.Errorf("Expected threshold floor of 1, got %d", c.Threshold())
			}
			if _, tripped := c.Observe(); !tripped {
				t.Error("Expected every observation to trip at threshold 1")
			}
		})
	}
}

func TestThresholdCounterConcurrentObserve(t *testing.T) {
	const (
		goroutines   = 8
		perGoroutine = 250
		threshold    = 50
	)

	c := newThresholdCounter(threshold)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		trips int
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				if _, tripped := c.Observe(); tripped {
					mu.Lock()
					trips++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	want := goroutines * perGoroutine / threshold
	if trips != want {
		t.Errorf("Expected exactly %d trips, got %d", want, trips)
	}
	if c.Pending() != 0 {
		t.Errorf("Expected pending=0 after exact multiple, got %d", c.Pending())
	}
}
