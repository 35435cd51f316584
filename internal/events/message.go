// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/dverne/mercantile/internal/models"
)

// SchemaVersion is the current message schema version. Increment on
// breaking changes to InteractionMessage.
const SchemaVersion = 1

const (
	// TopicInteractionRecorded is the subject interaction events are
	// published on after a durable insert.
	TopicInteractionRecorded = "interactions.recorded"

	// StreamName is the JetStream stream holding interaction subjects.
	StreamName = "INTERACTIONS"

	// StreamSubjects is the subject space captured by the stream.
	StreamSubjects = "interactions.>"
)

// InteractionMessage is the wire envelope for a recorded interaction.
// The embedded event is the stored document; MessageID doubles as the
// NATS message ID for deduplication.
type InteractionMessage struct {
	SchemaVersion int                     `json:"schema_version"`
	MessageID     string                  `json:"message_id"`
	RecordedAt    time.Time               `json:"recorded_at"`
	Event         models.InteractionEvent `json:"event"`
}

// NewInteractionMessage wraps a stored interaction event for publishing.
func NewInteractionMessage(event models.InteractionEvent) *InteractionMessage {
	return &InteractionMessage{
		SchemaVersion: SchemaVersion,
		MessageID:     uuid.New().String(),
		RecordedAt:    time.Now().UTC(),
		Event:         event,
	}
}

// Validate checks the fields consumers depend on.
func (m *InteractionMessage) Validate() error {
	if m.MessageID == "" {
		return fmt.Errorf("message_id is required")
	}
	if m.Event.ProductID == "" {
		return fmt.Errorf("event.product_id is required")
	}
	if m.Event.EventType == "" {
		return fmt.Errorf("event.event_type is required")
	}
	return nil
}

// SerializeMessage marshals a message to JSON after validating it.
func SerializeMessage(m *InteractionMessage) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validate message: %w", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return data, nil
}

// DeserializeMessage unmarshals JSON into a message and validates it.
// Messages without an explicit schema version are treated as version 1.
func DeserializeMessage(data []byte) (*InteractionMessage, error) {
	var m InteractionMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	if m.SchemaVersion == 0 {
		m.SchemaVersion = 1
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validate message: %w", err)
	}
	return &m, nil
}
