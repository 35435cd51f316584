// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

//go:build !nats

package events

import (
	"context"

	"github.com/dverne/mercantile/internal/catalog"
	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/logging"
)

// Pipeline is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats to enable interaction event processing.
type Pipeline struct {
	cfg config.NATSConfig
}

// NewPipeline creates an inert pipeline stub.
func NewPipeline(cfg config.NATSConfig, _ MergeTrigger) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Start warns when events are enabled in configuration but the binary
// was built without NATS support.
func (p *Pipeline) Start(ctx context.Context) error {
	if p != nil && p.cfg.Enabled {
		logging.Warn().Msg("NATS_ENABLED=true but binary built without nats support, events disabled")
	}
	return nil
}

// Stop is a no-op stub.
func (p *Pipeline) Stop() error {
	return nil
}

// IsRunning always returns false for the stub.
func (p *Pipeline) IsRunning() bool {
	return false
}

// InteractionPublisher returns nil; recording proceeds without
// announcements.
func (p *Pipeline) InteractionPublisher() catalog.Publisher {
	return nil
}
