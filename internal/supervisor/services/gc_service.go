// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package services

import (
	"context"
	"time"

	"github.com/dverne/mercantile/internal/logging"
)

// GCRunner matches the Badger value-log garbage collection hook.
//
// Satisfied by *gateway.BadgerStore.
type GCRunner interface {
	RunGC() error
}

// BadgerGCService runs Badger value-log garbage collection on a fixed
// interval. Badger never reclaims value-log space on its own; without
// this loop the detail and interaction stores grow without bound.
//
// A failed GC pass is logged and retried on the next tick rather than
// crashing the service, since ErrNoRewrite-adjacent conditions (nothing
// worth collecting yet) are routine.
//
// Example:
//
//	svc := services.NewBadgerGCService(store, cfg.Badger.GCInterval)
//	tree.AddDataService(svc)
type BadgerGCService struct {
	store    GCRunner
	interval time.Duration
	name     string
}

// NewBadgerGCService creates the GC loop. Non-positive intervals fall
// back to 10 minutes.
func NewBadgerGCService(store GCRunner, interval time.Duration) *BadgerGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BadgerGCService{
		store:    store,
		interval: interval,
		name:     "badger-gc",
	}
}

// Serve implements suture.Service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	logging.Info().Dur("interval", s.interval).Msg("Badger GC loop started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Badger GC loop stopped")
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.store.RunGC(); err != nil {
				logging.Error().Err(err).Msg("Badger value-log GC failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Badger value-log GC pass complete")
		}
	}
}

// String implements fmt.Stringer so suture logs name the service.
func (s *BadgerGCService) String() string {
	return s.name
}
