// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/logging"
)

const defaultScheduleInterval = 10 * time.Minute

// Scheduler runs aggregation merges in the background: periodically
// when the schedule is enabled, and on demand via TriggerRun (wired to
// the interaction fan-out so bursts of traffic refresh rankings ahead
// of the next tick). Throttled runs are skipped quietly; the limiter
// inside the orchestrator already bounds the merge frequency.
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
	enabled      bool

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	trigger chan struct{}
}

// NewScheduler builds a scheduler over the orchestrator. When the
// schedule is disabled the loop still serves TriggerRun.
func NewScheduler(orchestrator *Orchestrator, cfg config.AnalyticsConfig) *Scheduler {
	interval := cfg.ScheduleInterval
	if interval <= 0 {
		interval = defaultScheduleInterval
	}
	return &Scheduler{
		orchestrator: orchestrator,
		interval:     interval,
		enabled:      cfg.ScheduleEnabled,
		trigger:      make(chan struct{}, 1),
	}
}

// Start begins the background loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	if s.enabled {
		logging.Info().
			Dur("interval", s.interval).
			Msg("starting analytics scheduler")
	} else {
		logging.Info().Msg("analytics schedule disabled, merges run on trigger only")
	}

	go s.run(ctx)
	return nil
}

// Stop halts the loop and waits for it to finish. Safe to call more
// than once.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)
	<-doneCh

	logging.Info().Msg("analytics scheduler stopped")
	return nil
}

// TriggerRun requests a merge outside the schedule. Non-blocking; a
// request while one is already pending coalesces into it.
func (s *Scheduler) TriggerRun() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	var tick <-chan time.Time
	if s.enabled {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-tick:
			s.runOnce(ctx, "schedule")
		case <-s.trigger:
			s.runOnce(ctx, "trigger")
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, reason string) {
	processed, err := s.orchestrator.RunAggregationMerge(ctx)
	switch {
	case errors.Is(err, ErrRunTooSoon):
		logging.Debug().
			Str("reason", reason).
			Msg("background aggregation merge throttled, skipping")
	case err != nil:
		logging.Error().
			Err(err).
			Str("reason", reason).
			Msg("background aggregation merge failed")
	default:
		logging.Debug().
			Str("reason", reason).
			Int("products_processed", processed).
			Msg("background aggregation merge complete")
	}
}
