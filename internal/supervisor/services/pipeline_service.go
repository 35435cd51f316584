// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package services

import (
	"context"
	"fmt"
)

// PipelineRunner matches the interaction event pipeline lifecycle.
//
// Satisfied by *events.Pipeline in both the nats build and the stub
// build, so this wrapper carries no build tag of its own. Callers gate
// on configuration instead: the service is only added to the tree when
// events are enabled.
type PipelineRunner interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
}

// PipelineService wraps the interaction event pipeline as a supervised
// service:
//  1. Calls Start(ctx) to connect and begin consuming
//  2. Blocks until the context is canceled
//  3. Calls Stop() to drain subscriptions and close the connection
//
// Example:
//
//	pipeline := events.NewPipeline(cfg.NATS, scheduler)
//	svc := services.NewPipelineService(pipeline)
//	tree.AddMessagingService(svc)
type PipelineService struct {
	pipeline PipelineRunner
	name     string
}

// NewPipelineService creates the pipeline service wrapper.
func NewPipelineService(pipeline PipelineRunner) *PipelineService {
	return &PipelineService{
		pipeline: pipeline,
		name:     "event-pipeline",
	}
}

// Serve implements suture.Service.
//
// A Start failure is returned immediately so suture restarts the service
// under its backoff policy. Connection loss after a successful Start is
// the pipeline's own concern; its client reconnects internally.
func (s *PipelineService) Serve(ctx context.Context) error {
	if err := s.pipeline.Start(ctx); err != nil {
		return fmt.Errorf("event pipeline start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.pipeline.Stop(); err != nil {
		return fmt.Errorf("event pipeline stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer so suture logs name the service.
func (s *PipelineService) String() string {
	return s.name
}
