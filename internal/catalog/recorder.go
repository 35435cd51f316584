// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/dverne/mercantile/internal/gateway"
	"github.com/dverne/mercantile/internal/logging"
	"github.com/dverne/mercantile/internal/metrics"
	"github.com/dverne/mercantile/internal/models"
)

// Publisher announces persisted interaction events to interested
// consumers. Publishing is best-effort: the event is durable before
// publish is attempted, and a publish failure never fails the request.
type Publisher interface {
	PublishInteraction(ctx context.Context, event models.InteractionEvent) error
}

// Recorder appends interaction events to the interaction store and
// announces them. A nil publisher disables announcements.
type Recorder struct {
	store     gateway.InteractionStore
	publisher Publisher
	cfg       Config
}

// NewRecorder builds an interaction recorder. publisher may be nil.
func NewRecorder(store gateway.InteractionStore, publisher Publisher, cfg Config) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Record persists one product view. An empty user is attributed to the
// configured default user; an empty product is rejected with
// ErrMissingProductID before any write. The returned event carries the
// store-assigned ID.
func (r *Recorder) Record(ctx context.Context, userID, productID string) (models.InteractionEvent, error) {
	if productID == "" {
		return models.InteractionEvent{}, ErrMissingProductID
	}
	if userID == "" {
		userID = r.cfg.DefaultUserID
	}

	event := models.InteractionEvent{
		UserID:    userID,
		ProductID: productID,
		EventType: models.InteractionEventType,
		Details:   models.InteractionDetails,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	start := time.Now()
	id, err := r.store.InsertInteraction(ctx, event)
	metrics.RecordInteraction(time.Since(start), err)
	if err != nil {
		return models.InteractionEvent{}, fmt.Errorf("recording interaction: %w", err)
	}
	event.ID = id

	if r.publisher != nil {
		if pubErr := r.publisher.PublishInteraction(ctx, event); pubErr != nil {
			logging.Warn().
				Str("product_id", productID).
				Str("event_id", id).
				Err(pubErr).
				Msg("interaction publish failed, event already persisted")
		}
	}

	logging.Debug().
		Str("product_id", productID).
		Str("user_id", logging.SanitizeUserID(userID)).
		Str("event_id", id).
		Msg("interaction recorded")

	return event, nil
}
