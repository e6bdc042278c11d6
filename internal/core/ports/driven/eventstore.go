package driven

import (
	"context"
	"time"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// EventQuery filters stored events. Zero-valued fields match everything.
type EventQuery struct {
	// UserID restricts to one owning user.
	UserID string

	// Layer restricts to one layer.
	Layer domain.Layer

	// Source restricts to one producing parser.
	Source domain.EventSource

	// From is the inclusive lower bound on StartsAt.
	From *time.Time

	// To is the exclusive upper bound on StartsAt.
	To *time.Time

	// Limit caps the result size. Zero means no cap.
	Limit int
}

// EventStore is the narrow persistence contract the pipeline's callers
// consume. The pipeline itself never touches it; events are immutable
// once emitted and any later mutation happens behind this boundary.
type EventStore interface {
	// Insert stores events.
	Insert(ctx context.Context, events []domain.Event) error

	// Query returns events matching q, ordered by StartsAt ascending.
	Query(ctx context.Context, q EventQuery) ([]domain.Event, error)

	// Count returns the number of events matching q.
	Count(ctx context.Context, q EventQuery) (int, error)

	// Clear removes all events.
	Clear(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}
