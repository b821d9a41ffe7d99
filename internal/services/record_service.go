package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"financie/internal/core"
	"financie/internal/events"
	"financie/internal/records"
)

// RecordService orchestrates record operations across the store and the
// event publisher.
type RecordService struct {
	store     records.Store
	publisher events.Publisher

	created atomic.Int64
	deleted atomic.Int64
}

// NewRecordService wires a store and a publisher. A nil publisher disables events.
func NewRecordService(store records.Store, publisher events.Publisher) *RecordService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &RecordService{
		store:     store,
		publisher: publisher,
	}
}

// Add validates the draft, stores it and publishes a creation event.
func (s *RecordService) Add(ctx context.Context, d core.Draft) (core.Record, error) {
	if err := d.Validate(); err != nil {
		return core.Record{}, err
	}

	// Store first; events are best effort
	rec, err := s.store.Add(ctx, d)
	if err != nil {
		return core.Record{}, fmt.Errorf("save record: %w", err)
	}
	s.created.Add(1)

	if err := s.publisher.Publish(ctx, events.Created(rec)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"type", events.TypeRecordCreated, "id", rec.ID, "error", err)
	}

	return rec, nil
}

// Remove deletes a record. Removing an unknown ID is a no-op and emits nothing.
func (s *RecordService) Remove(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return false, fmt.Errorf("remove record: %w", err)
	}
	if !removed {
		return false, nil
	}
	s.deleted.Add(1)

	if err := s.publisher.Publish(ctx, events.Deleted(id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"type", events.TypeRecordDeleted, "id", id, "error", err)
	}

	return true, nil
}

// List returns every record, newest first.
func (s *RecordService) List(ctx context.Context) ([]core.Record, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return recs, nil
}

// Summary recomputes the aggregates from a fresh listing.
func (s *RecordService) Summary(ctx context.Context) (core.Summary, []core.Record, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return core.Summary{}, nil, err
	}
	return core.Summarize(recs), recs, nil
}

// Stats reports how many records were created and deleted since start.
func (s *RecordService) Stats() (created, deleted int64) {
	return s.created.Load(), s.deleted.Load()
}

// Close closes the publisher and the store when it holds resources.
func (s *RecordService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %w", errors.Join(errs...))
	}

	return nil
}
