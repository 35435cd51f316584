// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package events

import (
	"strings"
	"testing"

	"github.com/dverne/mercantile/internal/models"
)

func testEvent() models.InteractionEvent {
	return models.InteractionEvent{
		ID:        "evt-1",
		UserID:    "user-77",
		ProductID: "prod-123",
		EventType: "view",
		Details:   "Viewed from search results",
		Timestamp: "2026-03-14T09:26:53Z",
	}
}

func TestNewInteractionMessage(t *testing.T) {
	msg := NewInteractionMessage(testEvent())

	if msg.MessageID == "" {
		t.Error("Expected MessageID to be set")
	}
	if msg.SchemaVersion != SchemaVersion {
		t.Errorf("Expected SchemaVersion=%d, got %d", SchemaVersion, msg.SchemaVersion)
	}
	if msg.RecordedAt.IsZero() {
		t.Error("Expected RecordedAt to be set")
	}
	if msg.Event.ProductID != "prod-123" {
		t.Errorf("Expected Event.ProductID=prod-123, got %s", msg.Event.ProductID)
	}

	other := NewInteractionMessage(testEvent())
	if other.MessageID == msg.MessageID {
		t.Error("Expected distinct MessageIDs per message")
	}
}

func TestInteractionMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*InteractionMessage)
		wantErr string
	}{
		{
			name:   "valid message",
			mutate: func(m *InteractionMessage) {},
		},
		{
			name:    "missing message_id",
			mutate:  func(m *InteractionMessage) { m.MessageID = "" },
			wantErr: "message_id is required",
		},
		{
			name:    "missing product_id",
			mutate:  func(m *InteractionMessage) { m.Event.ProductID = "" },
			wantErr: "event.product_id is required",
		},
		{
			name:    "missing event_type",
			mutate:  func(m *InteractionMessage) { m.Event.EventType = "" },
			wantErr: "event.event_type is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewInteractionMessage(testEvent())
			tt.mutate(msg)

			err := msg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestSerializeMessageRoundTrip(t *testing.T) {
	original := NewInteractionMessage(testEvent())

	data, err := SerializeMessage(original)
	if err != nil {
		t.Fatalf("SerializeMessage failed: %v", err)
	}

	decoded, err := DeserializeMessage(data)
	if err != nil {
		t.Fatalf("DeserializeMessage failed: %v", err)
	}

	if decoded.MessageID != original.MessageID {
		t.Errorf("MessageID mismatch: got %s, want %s", decoded.MessageID, original.MessageID)
	}
	if decoded.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion mismatch: got %d, want %d", decoded.SchemaVersion, SchemaVersion)
	}
	if decoded.Event != original.Event {
		t.Errorf("Event mismatch: got %+v, want %+v", decoded.Event, original.Event)
	}
}

func TestSerializeMessageRejectsInvalid(t *testing.T) {
	msg := NewInteractionMessage(testEvent())
	msg.Event.ProductID = ""

	if _, err := SerializeMessage(msg); err == nil {
		t.Error("Expected error for message without product_id")
	}
}

func TestDeserializeMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "version defaults to 1 when absent",
			payload: `{"message_id":"m1","event":{"product_id":"p1","event_type":"view"}}`,
		},
		{
			name:    "malformed json",
			payload: `{"message_id":`,
			wantErr: true,
		},
		{
			name:    "missing required event fields",
			payload: `{"message_id":"m1","event":{"user_id":"u1"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DeserializeMessage([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if msg.SchemaVersion != 1 {
				t.Errorf("Expected SchemaVersion=1, got %d", msg.SchemaVersion)
			}
		})
	}
}

func TestStreamSubjectsCoverTopic(t *testing.T) {
	prefix := strings.TrimSuffix(StreamSubjects, ">")
	if !strings.HasPrefix(TopicInteractionRecorded, prefix) {
		t.Errorf("Topic %s not covered by stream subjects %s", TopicInteractionRecorded, StreamSubjects)
	}
}
