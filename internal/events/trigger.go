// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

//go:build nats

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/dverne/mercantile/internal/config"
	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/metrics"
)

// Trigger consumes recorded interaction events and fires an aggregation
// merge once enough have accumulated. It is the bridge between the event
// bus and the analytics scheduler.
//
// Every message is acked, including unparseable ones: interactions are
// durable in the store before they reach the bus, so a poison message
// carries no data worth redelivering.
type Trigger struct {
	subscriber *Subscriber
	target     MergeTrigger
	counter    *thresholdCounter
	queue      string
	logger     *logging.EventLogger
	doneCh     chan struct{}
}

// NewTrigger creates a trigger that fires target once cfg.TriggerThreshold
// interactions have been observed.
func NewTrigger(sub *Subscriber, target MergeTrigger, cfg config.NATSConfig) (*Trigger, error) {
	if sub == nil {
		return nil, fmt.Errorf("subscriber required")
	}
	if target == nil {
		return nil, fmt.Errorf("merge target required")
	}

	return &Trigger{
		subscriber: sub,
		target:     target,
		counter:    newThresholdCounter(cfg.TriggerThreshold),
		queue:      cfg.QueueGroup,
		logger:     logging.NewEventLogger(),
	}, nil
}

// Start subscribes to the interaction topic and begins consuming in the
// background. Returns an error if the subscription cannot be established.
func (t *Trigger) Start(ctx context.Context) error {
	msgs, err := t.subscriber.Subscribe(ctx, TopicInteractionRecorded)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", TopicInteractionRecorded, err)
	}

	t.doneCh = make(chan struct{})
	t.logger.LogSubscriptionStarted(TopicInteractionRecorded, t.queue)

	go t.consume(ctx, msgs)

	return nil
}

// Wait blocks until the consume loop has drained. Call after closing the
// subscriber so shutdown does not race in-flight messages.
func (t *Trigger) Wait() {
	if t.doneCh != nil {
		<-t.doneCh
	}
}

func (t *Trigger) consume(ctx context.Context, msgs <-chan *message.Message) {
	defer close(t.doneCh)

	for msg := range msgs {
		t.process(ctx, msg)
		msg.Ack()
	}

	t.logger.LogSubscriptionStopped(TopicInteractionRecorded)
}

func (t *Trigger) process(ctx context.Context, msg *message.Message) {
	start := time.Now()
	metrics.RecordNATSConsume()

	envelope, err := DeserializeMessage(msg.Payload)
	if err != nil {
		metrics.RecordNATSParseFailed()
		t.logger.Warn("dropping unparseable interaction message",
			"message_uuid", msg.UUID,
			"error", err.Error(),
		)
		return
	}

	metrics.RecordNATSProcessed()
	metrics.RecordNATSProcessingDuration(time.Since(start))
	t.logger.LogInteractionReceived(ctx, envelope.MessageID, envelope.Event.ProductID, envelope.Event.EventType)

	if pending, tripped := t.counter.Observe(); tripped {
		metrics.RecordAggregationTrigger()
		t.logger.LogAggregationTriggered(ctx, pending, t.counter.Threshold())
		t.target.TriggerRun()
	}
}
