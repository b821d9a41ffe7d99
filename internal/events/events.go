// Package events describes the notifications emitted when records change.
// Delivery is best effort: a failed publish never undoes a store mutation.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"financie/internal/core"
)

const (
	TypeRecordCreated = "record.created"
	TypeRecordDeleted = "record.deleted"
)

// RecordEvent is the JSON message published for every store mutation.
type RecordEvent struct {
	Type        string    `json:"type"`
	RecordID    string    `json:"record_id"`
	Kind        string    `json:"kind,omitempty"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher sends record events to a broker.
type Publisher interface {
	Publish(ctx context.Context, e RecordEvent) error
	Close() error
}

// Consumer delivers events from a broker until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, handler Handler) error
	Close() error
}

// Handler processes one delivered event. A non-nil error asks the broker to
// redeliver it.
type Handler func(ctx context.Context, e RecordEvent) error

// Created builds the event for a newly stored record.
func Created(r core.Record) RecordEvent {
	return RecordEvent{
		Type:        TypeRecordCreated,
		RecordID:    r.ID,
		Kind:        r.Kind.String(),
		Category:    r.Category,
		AmountCents: r.Amount.Cents,
		OccurredAt:  time.Now().UTC(),
	}
}

// Deleted builds the event for a removed record.
func Deleted(id string) RecordEvent {
	return RecordEvent{
		Type:       TypeRecordDeleted,
		RecordID:   id,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, RecordEvent) error { return nil }
func (Nop) Close() error                               { return nil }

// FromJSON decodes an event published by a Publisher.
func FromJSON(data []byte) (RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return RecordEvent{}, err
	}
	if e.Type == "" || e.RecordID == "" {
		return RecordEvent{}, errors.New("event without type or record id")
	}
	return e, nil
}

// Key identifies the event for deduplication. A record is created and
// deleted at most once, so type and record ID are enough.
func (e RecordEvent) Key() string {
	return e.Type + ":" + e.RecordID
}
