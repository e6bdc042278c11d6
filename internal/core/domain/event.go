package domain

import "time"

// Event is the canonical record every parser and normaliser converges to.
// It is created only inside the import pipeline and is immutable once
// emitted; any later edit or deletion belongs to the persistence layer.
type Event struct {
	// ID is the unique identifier for the event.
	ID string

	// UserID identifies the owning user.
	UserID string

	// Title is the human-readable title. Required: non-empty after
	// trimming, truncated to MaxTitleLength.
	Title string

	// Description is optional free text, truncated to MaxDescriptionLength.
	Description string

	// StartsAt is the validated start timestamp. Its year is always
	// within [1900, 2100].
	StartsAt time.Time

	// EndsAt is the optional end timestamp.
	EndsAt *time.Time

	// Layer is the life-category label. Never empty; defaults to media.
	Layer Layer

	// EventType is a free-form short tag (e.g., "photo", "note", "fix").
	EventType string

	// Source identifies which parser produced the event.
	Source EventSource

	// SourceLocalID is the identifier the record carried in its export,
	// used by callers for de-duplication. Synthesized deterministically
	// from stable fields when the export carries none.
	SourceLocalID string

	// Location is the optional place the event happened.
	Location *Location

	// MediaRefs lists paths or URIs of media attached to the event.
	MediaRefs []string

	// Metadata carries format-specific extras that do not map to a
	// first-class field.
	Metadata map[string]any
}

// Location is a place attached to an event. Latitude and Longitude are
// jointly valid: either both are meaningful or the whole Location carries
// only a name.
type Location struct {
	// Latitude in decimal degrees, within [-90, 90].
	Latitude float64

	// Longitude in decimal degrees, within [-180, 180].
	Longitude float64

	// HasCoordinates reports whether Latitude/Longitude hold a real fix.
	HasCoordinates bool

	// Name is the human-readable place name.
	Name string

	// Country is the country name or code, when known.
	Country string
}

// EventSource identifies which parser or normaliser produced an event.
type EventSource string

// Known event sources.
const (
	// SourceCSV marks events parsed from delimited text.
	SourceCSV EventSource = "csv"

	// SourceICS marks events parsed from calendar text.
	SourceICS EventSource = "ics"

	// SourceEXIF marks events extracted from embedded photo metadata.
	SourceEXIF EventSource = "exif"

	// SourceTakeout marks events from the location/calendar/notes export.
	SourceTakeout EventSource = "takeout"

	// SourceSocial marks events from the post/connection/event export.
	SourceSocial EventSource = "social"
)

// String returns the string representation.
func (s EventSource) String() string {
	return string(s)
}

// Fixed ceilings for free-text fields on an Event.
const (
	// MaxTitleLength is the ceiling for Title, in runes.
	MaxTitleLength = 200

	// MaxDescriptionLength is the ceiling for Description, in runes.
	MaxDescriptionLength = 5000
)
