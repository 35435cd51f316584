// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

//go:build nats

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/dverne/mercantile/internal/catalog"
	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/logging"
)

// Pipeline owns the full interaction event path: optional embedded NATS
// server, stream provisioning, the publisher the recorder announces on,
// and the trigger consumer that fires aggregation merges.
//
// Start brings components up in dependency order and tears down partial
// state on failure. Stop reverses the order so in-flight messages drain
// before the transport goes away.
type Pipeline struct {
	cfg    config.NATSConfig
	target MergeTrigger

	server     *EmbeddedServer
	natsConn   *natsgo.Conn
	streams    *StreamInitializer
	publisher  *Publisher
	subscriber *Subscriber
	trigger    *Trigger

	cancelConsume context.CancelFunc

	mu      sync.Mutex
	running bool
}

// NewPipeline creates an unstarted pipeline. target receives merge
// triggers once consumption starts.
func NewPipeline(cfg config.NATSConfig, target MergeTrigger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		target: target,
	}
}

// Start initializes the event pipeline. It is a no-op when events are
// disabled in configuration.
func (p *Pipeline) Start(ctx context.Context) error {
	if p == nil {
		return nil
	}

	if !p.cfg.Enabled {
		logging.Info().Msg("NATS event processing disabled (NATS_ENABLED=false)")
		return nil
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("event pipeline already running")
	}
	p.mu.Unlock()

	logging.Info().Msg("Initializing NATS event processing...")

	natsURL, err := p.startServer()
	if err != nil {
		return err
	}

	if err := p.connect(ctx, natsURL); err != nil {
		p.teardown(context.Background())
		return err
	}

	wmLogger := newWatermillLogger()

	publisher, err := NewPublisher(natsURL, wmLogger)
	if err != nil {
		p.teardown(context.Background())
		return fmt.Errorf("create publisher: %w", err)
	}
	p.publisher = publisher
	logging.Info().Msg("NATS publisher created")

	subscriber, err := NewSubscriber(natsURL, p.cfg, wmLogger)
	if err != nil {
		p.teardown(context.Background())
		return fmt.Errorf("create subscriber: %w", err)
	}
	p.subscriber = subscriber

	trigger, err := NewTrigger(subscriber, p.target, p.cfg)
	if err != nil {
		p.teardown(context.Background())
		return fmt.Errorf("create trigger: %w", err)
	}
	p.trigger = trigger

	// The consume loop outlives the caller's context; Stop owns its
	// cancellation so shutdown order stays deterministic.
	consumeCtx, cancel := context.WithCancel(context.Background())
	p.cancelConsume = cancel

	if err := trigger.Start(consumeCtx); err != nil {
		p.teardown(context.Background())
		return fmt.Errorf("start trigger: %w", err)
	}

	p.mu.Lock()
	p.running = true
	p.mu.Unlock()

	logging.Info().
		Int("trigger_threshold", p.cfg.TriggerThreshold).
		Msg("NATS event processing initialized successfully")
	return nil
}

// startServer boots the embedded server when configured and returns the
// URL clients should connect to.
func (p *Pipeline) startServer() (string, error) {
	if !p.cfg.EmbeddedServer {
		logging.Info().Str("url", p.cfg.URL).Msg("Using external NATS server")
		return p.cfg.URL, nil
	}

	server, err := NewEmbeddedServer(p.cfg)
	if err != nil {
		return "", fmt.Errorf("start embedded NATS server: %w", err)
	}
	p.server = server
	logging.Info().Str("url", server.ClientURL()).Msg("Embedded NATS server started")
	return server.ClientURL(), nil
}

// connect establishes the raw NATS connection and provisions the
// interaction stream.
func (p *Pipeline) connect(ctx context.Context, natsURL string) error {
	nc, err := natsgo.Connect(natsURL,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(publisherReconnectWait),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	p.natsConn = nc
	logging.Info().Msg("NATS connection established")

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	streams, err := NewStreamInitializer(js, p.cfg)
	if err != nil {
		return fmt.Errorf("create stream initializer: %w", err)
	}
	p.streams = streams

	stream, err := streams.EnsureStream(ctx)
	if err != nil {
		return fmt.Errorf("ensure stream exists: %w", err)
	}

	streamInfo := stream.CachedInfo()
	logging.Info().
		Str("name", streamInfo.Config.Name).
		Strs("subjects", streamInfo.Config.Subjects).
		Dur("max_age", streamInfo.Config.MaxAge).
		Msg("JetStream stream ready")
	return nil
}

// Stop drains and shuts down the pipeline. Safe to call when the
// pipeline never started.
func (p *Pipeline) Stop() error {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.mu.Unlock()

	logging.Info().Msg("Shutting down NATS components...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), p.closeTimeout())
	defer cancel()

	err := p.teardown(shutdownCtx)
	logging.Info().Msg("NATS shutdown complete")
	return err
}

// teardown closes whatever components exist, consumer side first so the
// transport stays up while messages drain. Returns the first error.
func (p *Pipeline) teardown(ctx context.Context) error {
	var firstErr error

	if p.cancelConsume != nil {
		p.cancelConsume()
		p.cancelConsume = nil
	}

	if p.subscriber != nil {
		if err := p.subscriber.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing subscriber")
			firstErr = err
		}
		p.subscriber = nil
	}

	if p.trigger != nil {
		p.trigger.Wait()
		p.trigger = nil
	}

	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing publisher")
			if firstErr == nil {
				firstErr = err
			}
		}
		p.publisher = nil
	}

	if p.natsConn != nil {
		p.natsConn.Close()
		p.natsConn = nil
		logging.Info().Msg("NATS connection closed")
	}

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("Error shutting down NATS server")
			if firstErr == nil {
				firstErr = err
			}
		}
		p.server = nil
		logging.Info().Msg("Embedded NATS server stopped")
	}

	return firstErr
}

func (p *Pipeline) closeTimeout() time.Duration {
	if p.cfg.CloseTimeout > 0 {
		return p.cfg.CloseTimeout
	}
	return 30 * time.Second
}

// IsRunning reports whether the pipeline is active.
func (p *Pipeline) IsRunning() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// InteractionPublisher exposes the publisher for wiring into the
// recorder. Returns an untyped nil when the pipeline is disabled or not
// started, so callers' nil checks behave.
func (p *Pipeline) InteractionPublisher() catalog.Publisher {
	if p == nil || p.publisher == nil {
		return nil
	}
	return p.publisher
}
