// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package services

import (
	"context"
	"fmt"
)

// SchedulerManager matches the analytics scheduler lifecycle.
//
// Satisfied by *analytics.Scheduler. Kept as an interface so the wrapper
// can adapt the Start/Stop pattern to suture's Serve pattern without
// importing the analytics package.
type SchedulerManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// SchedulerService wraps the analytics scheduler as a supervised service:
//  1. Calls Start(ctx) to begin the timed merge loop
//  2. Blocks until the context is canceled
//  3. Calls Stop() for graceful shutdown
//
// Example:
//
//	sched := analytics.NewScheduler(orchestrator, cfg.Analytics)
//	svc := services.NewSchedulerService(sched)
//	tree.AddMessagingService(svc)
type SchedulerService struct {
	manager SchedulerManager
	name    string
}

// NewSchedulerService creates the scheduler service wrapper.
func NewSchedulerService(manager SchedulerManager) *SchedulerService {
	return &SchedulerService{
		manager: manager,
		name:    "analytics-scheduler",
	}
}

// Serve implements suture.Service.
//
// A Start failure is returned immediately so suture restarts the service
// under its backoff policy.
func (s *SchedulerService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("analytics scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("analytics scheduler stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer so suture logs name the service.
func (s *SchedulerService) String() string {
	return s.name
}
