package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"financie/internal/core"
)

// Store keeps records in process memory, newest first.
type Store struct {
	mu    sync.Mutex
	items []core.Record
	newID func() string
}

func New() *Store {
	return &Store{newID: uuid.NewString}
}

// Add prepends the record with a fresh ID.
func (s *Store) Add(_ context.Context, d core.Draft) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := d.WithID(s.newID())
	s.items = append([]core.Record{r}, s.items...)
	return r, nil
}

// Remove deletes the record with the given ID, if present.
func (s *Store) Remove(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.items {
		if r.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// List returns a copy of the records.
func (s *Store) List(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.items...), nil
}

// Len reports how many records are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
