// Package memory provides in-memory implementations of the driven
// storage ports, used in tests and for dry-run imports.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
)

// Ensure EventStore implements the interface.
var _ driven.EventStore = (*EventStore)(nil)

// EventStore is an in-memory implementation of driven.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]domain.Event
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[string]domain.Event),
	}
}

// Insert stores events, keyed by ID.
func (s *EventStore) Insert(_ context.Context, events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range events {
		s.events[event.ID] = event
	}
	return nil
}

// Query returns events matching q, ordered by StartsAt ascending.
func (s *EventStore) Query(_ context.Context, q driven.EventQuery) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Event
	for _, event := range s.events {
		if matches(event, q) {
			matched = append(matched, event)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].StartsAt.Equal(matched[j].StartsAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].StartsAt.Before(matched[j].StartsAt)
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count returns the number of events matching q.
func (s *EventStore) Count(_ context.Context, q driven.EventQuery) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, event := range s.events {
		if matches(event, q) {
			count++
		}
	}
	return count, nil
}

// Clear removes all events.
func (s *EventStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string]domain.Event)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *EventStore) Close() error {
	return nil
}

// matches applies every non-zero filter in q. The Limit field is
// handled by the caller.
func matches(event domain.Event, q driven.EventQuery) bool {
	if q.UserID != "" && event.UserID != q.UserID {
		return false
	}
	if q.Layer != "" && event.Layer != q.Layer {
		return false
	}
	if q.Source != "" && event.Source != q.Source {
		return false
	}
	if q.From != nil && event.StartsAt.Before(*q.From) {
		return false
	}
	if q.To != nil && !event.StartsAt.Before(*q.To) {
		return false
	}
	return true
}
