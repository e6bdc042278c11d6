package social

import (
	"time"

	"github.com/google/uuid"

	"github.com/chronicle-labs/chronicle-cli/internal/classify"
	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
	"github.com/chronicle-labs/chronicle-cli/internal/dates"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/probe"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// normaliseGatherings converts event invitations and responses. The
// RSVP answer is carried verbatim in metadata, never interpreted. A
// record without a name or start timestamp is skipped.
func normaliseGatherings(itemID string, gatherings []any, opts domain.ImportOptions, result *driven.ParseResult) {
	for _, raw := range gatherings {
		gathering, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		title, _ := probe.String(gathering, "name", "title")
		title = sanitize.CleanTitle(title)
		if title == "" {
			continue
		}

		ts, ok := probe.Timestamp(gathering, "startTimestamp", "startTime", "timestamp")
		if !ok {
			continue
		}
		startsAt, err := dates.Resolve(ts, opts.DateOrder)
		if err != nil {
			continue
		}

		var endsAt *time.Time
		if endRaw, hasEnd := probe.Timestamp(gathering, "endTimestamp", "endTime"); hasEnd {
			if t, err := dates.Resolve(endRaw, opts.DateOrder); err == nil {
				endsAt = &t
			}
		}

		description, _ := probe.String(gathering, "description", "details")
		description = sanitize.CleanDescription(description)

		location := placeOf(gathering)
		layer := classify.ClassifyFields([]string{title, description}, classify.Options{
			Extra:       opts.ExtraKeywords,
			MinScore:    opts.MinScore,
			HasLocation: location != nil && location.HasCoordinates,
		}).Layer

		var metadata map[string]any
		if response, ok := probe.String(gathering, "response", "rsvp"); ok && response != "" {
			metadata = map[string]any{"response": response}
		}

		localID, ok := probe.String(gathering, "id", "eventId")
		if !ok || localID == "" {
			localID = domain.SynthesizeLocalID(itemID, "gathering", title, startsAt.Format(time.RFC3339))
		}

		result.Events = append(result.Events, domain.Event{
			ID:            uuid.New().String(),
			UserID:        opts.UserID,
			Title:         title,
			Description:   description,
			StartsAt:      startsAt,
			EndsAt:        endsAt,
			Layer:         layer,
			EventType:     "gathering",
			Source:        domain.SourceSocial,
			SourceLocalID: localID,
			Location:      location,
			Metadata:      metadata,
		})
	}
}
