package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEvents() []domain.Event {
	endsAt := time.Date(2021, 6, 12, 11, 0, 0, 0, time.UTC)
	return []domain.Event{
		{
			ID: "e1", UserID: "u1", Title: "Flight to Lisbon",
			Description: "Summer trip", Layer: domain.LayerTravel,
			EventType: "appointment", Source: domain.SourceICS,
			SourceLocalID: "uid-1",
			StartsAt:      time.Date(2021, 6, 12, 8, 0, 0, 0, time.UTC),
			EndsAt:        &endsAt,
			Location: &domain.Location{
				Name: "Lisbon", Latitude: 38.7223, Longitude: -9.1393,
				HasCoordinates: true,
			},
			MediaRefs: []string{"tickets.jpg"},
			Metadata:  map[string]any{"status": "CONFIRMED"},
		},
		{
			ID: "e2", UserID: "u1", Title: "Dentist", Layer: domain.LayerHealth,
			Source:   domain.SourceCSV,
			StartsAt: time.Date(2021, 6, 14, 10, 0, 0, 0, time.UTC),
		},
		{
			ID: "e3", UserID: "u2", Title: "Concert", Layer: domain.LayerMedia,
			Source:   domain.SourceCSV,
			StartsAt: time.Date(2021, 6, 13, 20, 0, 0, 0, time.UTC),
		},
	}
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestStore_InsertAndQueryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, sampleEvents()))

	events, err := store.Query(ctx, driven.EventQuery{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "e3", events[1].ID)
	assert.Equal(t, "e2", events[2].ID)

	flight := events[0]
	assert.Equal(t, "Flight to Lisbon", flight.Title)
	assert.Equal(t, domain.LayerTravel, flight.Layer)
	assert.Equal(t, domain.SourceICS, flight.Source)
	assert.Equal(t, "uid-1", flight.SourceLocalID)
	require.NotNil(t, flight.EndsAt)
	assert.Equal(t, 11, flight.EndsAt.Hour())
	require.NotNil(t, flight.Location)
	assert.True(t, flight.Location.HasCoordinates)
	assert.InDelta(t, 38.7223, flight.Location.Latitude, 0.0001)
	assert.Equal(t, []string{"tickets.jpg"}, flight.MediaRefs)
	assert.Equal(t, "CONFIRMED", flight.Metadata["status"])

	// Optional fields stay absent, not zero-valued.
	dentist := events[2]
	assert.Nil(t, dentist.EndsAt)
	assert.Nil(t, dentist.Location)
	assert.Empty(t, dentist.MediaRefs)
}

func TestStore_QueryFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, sampleEvents()))

	byUser, err := store.Query(ctx, driven.EventQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byLayer, err := store.Query(ctx, driven.EventQuery{Layer: domain.LayerHealth})
	require.NoError(t, err)
	require.Len(t, byLayer, 1)
	assert.Equal(t, "e2", byLayer[0].ID)

	bySource, err := store.Query(ctx, driven.EventQuery{Source: domain.SourceCSV})
	require.NoError(t, err)
	assert.Len(t, bySource, 2)

	from := time.Date(2021, 6, 13, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 6, 14, 0, 0, 0, 0, time.UTC)
	inRange, err := store.Query(ctx, driven.EventQuery{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "e3", inRange[0].ID)

	limited, err := store.Query(ctx, driven.EventQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "e1", limited[0].ID)
}

func TestStore_InsertUpsertsByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, sampleEvents()))

	updated := domain.Event{
		ID: "e2", UserID: "u1", Title: "Dentist (rescheduled)",
		Layer: domain.LayerHealth, Source: domain.SourceCSV,
		StartsAt: time.Date(2021, 6, 15, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(ctx, []domain.Event{updated}))

	count, err := store.Count(ctx, driven.EventQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	byLayer, err := store.Query(ctx, driven.EventQuery{Layer: domain.LayerHealth})
	require.NoError(t, err)
	require.Len(t, byLayer, 1)
	assert.Equal(t, "Dentist (rescheduled)", byLayer[0].Title)
}

func TestStore_CountAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, sampleEvents()))

	count, err := store.Count(ctx, driven.EventQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.Clear(ctx))
	count, err = store.Count(ctx, driven.EventQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_InsertEmptyIsNoOp(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Insert(context.Background(), nil))
}
