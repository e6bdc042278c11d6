package takeout

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
	"github.com/chronicle-labs/chronicle-cli/internal/dates"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/probe"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// dayBucket aggregates every location fix recorded on one calendar day.
// The first fix of the day supplies the representative coordinate.
type dayBucket struct {
	day       time.Time
	count     int
	latitude  float64
	longitude float64
}

// normaliseLocations folds raw location fixes into one travel event per
// calendar day. Fixes missing a timestamp or a usable coordinate pair
// are skipped silently; they are noise, not records.
func normaliseLocations(itemID string, fixes []any, opts domain.ImportOptions, result *driven.ParseResult) {
	buckets := make(map[string]*dayBucket)

	for _, raw := range fixes {
		fix, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		ts, ok := probe.Timestamp(fix, "timestamp", "timestampMs", "time")
		if !ok {
			continue
		}
		at, err := dates.Resolve(ts, opts.DateOrder)
		if err != nil {
			continue
		}

		lat, lon, ok := fixCoordinates(fix)
		if !ok {
			continue
		}

		key := at.Format("2006-01-02")
		bucket, seen := buckets[key]
		if !seen {
			bucket = &dayBucket{
				day:       time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
				latitude:  lat,
				longitude: lon,
			}
			buckets[key] = bucket
		}
		bucket.count++
	}

	days := make([]string, 0, len(buckets))
	for key := range buckets {
		days = append(days, key)
	}
	sort.Strings(days)

	for _, key := range days {
		bucket := buckets[key]
		result.Events = append(result.Events, domain.Event{
			ID:            uuid.New().String(),
			UserID:        opts.UserID,
			Title:         "Location history",
			Description:   fmt.Sprintf("%d recorded positions", bucket.count),
			StartsAt:      bucket.day,
			Layer:         domain.LayerTravel,
			EventType:     "travel_day",
			Source:        domain.SourceTakeout,
			SourceLocalID: domain.SynthesizeLocalID(itemID, "locations", key),
			Location: &domain.Location{
				Latitude:       bucket.latitude,
				Longitude:      bucket.longitude,
				HasCoordinates: true,
			},
			Metadata: map[string]any{"point_count": bucket.count},
		})
	}
}

// fixCoordinates reads one coordinate pair. Scaled integer fields
// (degrees times 1e7) take precedence; plain decimal fields are the
// newer shape. The 0,0 sentinel and out-of-range pairs are rejected.
func fixCoordinates(fix map[string]any) (lat, lon float64, ok bool) {
	if e7, found := probe.Number(fix, "latitudeE7"); found {
		lat = e7 / 1e7
	} else if v, found := probe.Number(fix, "latitude", "lat"); found {
		lat = v
	} else {
		return 0, 0, false
	}

	if e7, found := probe.Number(fix, "longitudeE7"); found {
		lon = e7 / 1e7
	} else if v, found := probe.Number(fix, "longitude", "lng", "lon"); found {
		lon = v
	} else {
		return 0, 0, false
	}

	if !sanitize.ValidCoordinates(lat, lon) {
		return 0, 0, false
	}
	return lat, lon, true
}
