// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

//go:build nats

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/dverne/mercantile/internal/config"
)

const (
	// streamMaxAge bounds how long unconsumed interaction events are
	// retained before JetStream drops them.
	streamMaxAge = 7 * 24 * time.Hour

	// streamDuplicateWindow is the window in which JetStream rejects
	// messages carrying an already-seen Nats-Msg-Id.
	streamDuplicateWindow = 2 * time.Minute
)

// JetStreamContext defines the subset of jetstream.JetStream used by
// StreamInitializer. The interface allows tests to substitute mocks.
type JetStreamContext interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
	UpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// StreamInitializer manages the interaction stream lifecycle. It ensures
// the stream exists with the correct configuration before publishers and
// subscribers start, so deliveries are durable from the first message.
type StreamInitializer struct {
	js       JetStreamContext
	maxBytes int64
}

// NewStreamInitializer creates a stream initializer bound to the given
// JetStream context. Returns an error if the context is nil.
func NewStreamInitializer(js JetStreamContext, cfg config.NATSConfig) (*StreamInitializer, error) {
	if js == nil {
		return nil, fmt.Errorf("JetStream context required")
	}

	return &StreamInitializer{
		js:       js,
		maxBytes: cfg.MaxStore,
	}, nil
}

// EnsureStream creates or updates the interaction stream. The operation
// is idempotent; existing streams are updated in place so configuration
// changes take effect on restart.
func (s *StreamInitializer) EnsureStream(ctx context.Context) (jetstream.Stream, error) {
	streamCfg := jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{StreamSubjects},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      streamMaxAge,
		MaxBytes:    s.maxBytes,
		Duplicates:  streamDuplicateWindow,
		Storage:     jetstream.FileStorage,
		Discard:     jetstream.DiscardOld,
		AllowDirect: true,
	}

	_, err := s.js.Stream(ctx, StreamName)
	if err == nil {
		stream, err := s.js.UpdateStream(ctx, streamCfg)
		if err != nil {
			return nil, fmt.Errorf("update stream %s: %w", StreamName, err)
		}
		return stream, nil
	}

	if errors.Is(err, jetstream.ErrStreamNotFound) {
		stream, err := s.js.CreateStream(ctx, streamCfg)
		if err != nil {
			return nil, fmt.Errorf("create stream %s: %w", StreamName, err)
		}
		return stream, nil
	}

	return nil, fmt.Errorf("check stream %s: %w", StreamName, err)
}

// IsHealthy reports whether the stream exists and is reachable.
func (s *StreamInitializer) IsHealthy(ctx context.Context) bool {
	_, err := s.js.Stream(ctx, StreamName)
	return err == nil
}
