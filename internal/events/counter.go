// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package events

import "sync"

// MergeTrigger is the consumer-side hook into the analytics scheduler.
// Satisfied by analytics.Scheduler.
type MergeTrigger interface {
	TriggerRun()
}

// thresholdCounter counts consumed interactions and reports when the
// configured threshold is crossed, resetting the window each time.
type thresholdCounter struct {
	mu        sync.Mutex
	pending   int
	threshold int
}

// newThresholdCounter builds a counter. Thresholds below one collapse
// to one, so every event trips.
func newThresholdCounter(threshold int) *thresholdCounter {
	if threshold < 1 {
		threshold = 1
	}
	return &thresholdCounter{threshold: threshold}
}

// Observe records one event. It returns the pending count at the time
// of observation and whether the threshold tripped; a trip resets the
// pending count to zero.
func (c *thresholdCounter) Observe() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending++
	pending := c.pending
	if pending >= c.threshold {
		c.pending = 0
		return pending, true
	}
	return pending, false
}

// Pending returns the events counted since the last trip.
func (c *thresholdCounter) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Threshold returns the configured trip point.
func (c *thresholdCounter) Threshold() int {
	return c.threshold
}
