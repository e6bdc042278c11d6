package social

import (
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

// normalisePosts converts exported timeline posts. A post without a
// timestamp, or with neither text nor attachments, is skipped.
func normalisePosts(itemID string, posts []any, opts domain.ImportOptions, result *driven.ParseResult) {
	for _, raw := range posts {
		post, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		ts, ok := probe.Timestamp(post, "timestamp", "createdTime", "created_at")
		if !ok {
			continue
		}
		startsAt, err := dates.Resolve(ts, opts.DateOrder)
		if err != nil {
			continue
		}

		text, _ := probe.String(post, "post", "text", "message", "content")
		media := attachmentRefs(post)
		if text == "" && len(media) == 0 {
			continue
		}

		// The title is only ever the truncated first line; the full
		// text stays in the description.
		description := sanitize.CleanDescription(text)
		title := sanitize.CleanTitle(firstLine(text))
		if title == "" {
			title = "Shared media"
		}

		location := placeOf(post)
		layer := classify.ClassifyFields([]string{title, description}, classify.Options{
			Extra:       opts.ExtraKeywords,
			MinScore:    opts.MinScore,
			HasLocation: location != nil && location.HasCoordinates,
		}).Layer

		localID, ok := probe.String(post, "id", "postId")
		if !ok || localID == "" {
			localID = domain.SynthesizeLocalID(itemID, "post", startsAt.Format(time.RFC3339), title)
		}

		result.Events = append(result.Events, domain.Event{
			ID:            uuid.New().String(),
			UserID:        opts.UserID,
			Title:         title,
			Description:   description,
			StartsAt:      startsAt,
			Layer:         layer,
			EventType:     "post",
			Source:        domain.SourceSocial,
			SourceLocalID: localID,
			Location:      location,
			MediaRefs:     media,
		})
	}
}

// attachmentRefs collects attachment URIs in export order.
func attachmentRefs(post map[string]any) []string {
	entries, ok := probe.Slice(post, "attachments", "media")
	if !ok {
		return nil
	}

	var refs []string
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if uri, ok := probe.String(entry, "uri", "url", "path"); ok && uri != "" {
			refs = append(refs, uri)
		}
	}
	return refs
}

// placeOf reads an embedded place object. Coordinates are kept only
// when jointly valid; a bare place name still yields a location.
func placeOf(record map[string]any) *domain.Location {
	place, ok := probe.Object(record, "place", "location")
	if !ok {
		return nil
	}

	name, _ := probe.String(place, "name")
	lat, hasLat := probe.Number(place, "latitude", "lat")
	lon, hasLon := probe.Number(place, "longitude", "lng", "lon")

	loc := &domain.Location{Name: sanitize.CleanTitle(name)}
	if hasLat && hasLon && sanitize.ValidCoordinates(lat, lon) {
		loc.Latitude = lat
		loc.Longitude = lon
		loc.HasCoordinates = true
	}
	if loc.Name == "" && !loc.HasCoordinates {
		return nil
	}
	return loc
}

// firstLine returns the text up to the first line break.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
