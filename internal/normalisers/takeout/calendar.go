package takeout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chronicle-labs/chronicle-cli/internal/classify"
	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
	"github.com/chronicle-labs/chronicle-cli/internal/dates"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/probe"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// normaliseCalendar converts exported calendar items. Items missing a
// title or start timestamp are skipped; an unresolvable start date
// drops the item with a diagnostic while its siblings continue.
func normaliseCalendar(itemID string, items []any, opts domain.ImportOptions, result *driven.ParseResult) {
	for i, raw := range items {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		title, _ := probe.String(entry, "title", "summary", "name")
		title = sanitize.CleanTitle(title)
		startRaw, hasStart := probe.Timestamp(entry, "startTime", "start", "begin")
		if title == "" || !hasStart {
			continue
		}

		ref := fmt.Sprintf("%s:item %d", itemID, i+1)
		startsAt, err := dates.Resolve(startRaw, opts.DateOrder)
		if err != nil {
			result.Errors = append(result.Errors, domain.ImportError{
				ItemID:  ref,
				Message: fmt.Sprintf("invalid start time %q: %v", startRaw, err),
			})
			continue
		}

		// A bad end time degrades to an open-ended event.
		var endsAt *time.Time
		if endRaw, hasEnd := probe.Timestamp(entry, "endTime", "end"); hasEnd {
			if t, err := dates.Resolve(endRaw, opts.DateOrder); err == nil {
				endsAt = &t
			}
		}

		description, _ := probe.String(entry, "description", "details")
		description = sanitize.CleanDescription(description)

		var location *domain.Location
		if name, ok := probe.String(entry, "location", "place", "where"); ok {
			if name = sanitize.CleanTitle(name); name != "" {
				location = &domain.Location{Name: name}
			}
		}

		layer := nativeOrClassified(entry, title, description, location != nil, opts)

		localID, ok := probe.String(entry, "id", "uid", "eventId")
		if !ok || localID == "" {
			localID = domain.SynthesizeLocalID(itemID, title, startsAt.Format(time.RFC3339))
		}

		result.Events = append(result.Events, domain.Event{
			ID:            uuid.New().String(),
			UserID:        opts.UserID,
			Title:         title,
			Description:   description,
			StartsAt:      startsAt,
			EndsAt:        endsAt,
			Layer:         layer,
			EventType:     "appointment",
			Source:        domain.SourceTakeout,
			SourceLocalID: localID,
			Location:      location,
		})
	}
}

// nativeOrClassified honours a valid native category and routes
// everything else through the classifier.
func nativeOrClassified(entry map[string]any, title, description string, hasLocation bool, opts domain.ImportOptions) domain.Layer {
	if category, ok := probe.String(entry, "category", "layer", "kind"); ok {
		layer := domain.Layer(strings.ToLower(strings.TrimSpace(category)))
		if layer.IsValid() {
			return layer
		}
	}
	return classify.ClassifyFields([]string{title, description}, classify.Options{
		Extra:       opts.ExtraKeywords,
		MinScore:    opts.MinScore,
		HasLocation: hasLocation,
	}).Layer
}
