// Package ics parses line-oriented calendar text into canonical events.
//
// The tokenizer unfolds continuation lines before splitting each logical
// line at its first unescaped colon. Event records are framed by
// BEGIN/END markers; a record left unclosed or re-opened is discarded
// whole, never emitted partially. Recurrence expressions, categories,
// attendees and status are captured verbatim in metadata, uninterpreted.
package ics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chronicle-labs/chronicle-cli/internal/classify"
	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
	"github.com/chronicle-labs/chronicle-cli/internal/dates"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles calendar text.
type Parser struct{}

// New creates a new calendar-text parser.
func New() *Parser {
	return &Parser{}
}

// Source identifies the events this parser produces.
func (p *Parser) Source() domain.EventSource {
	return domain.SourceICS
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{"text/calendar"}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 50 // Generic MIME parser
}

// Detect accepts items that look like calendar text.
func (p *Parser) Detect(item domain.ImportItem) bool {
	head := item.Data
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(string(head), "BEGIN:")
}

// Auxiliary properties captured verbatim into metadata.
var verbatimProps = map[string]string{
	"RRULE":      "rrule",
	"CATEGORIES": "categories",
	"STATUS":     "status",
	"ORGANIZER":  "organizer",
}

// Parse converts every complete VEVENT record into an event.
// The whole-item byte ceiling is checked before any tokenization.
func (p *Parser) Parse(_ context.Context, item domain.ImportItem, opts domain.ImportOptions) (*driven.ParseResult, error) {
	opts = opts.Normalise()

	if err := sanitize.CheckSize(item.ID, len(item.Data), opts.MaxItemBytes); err != nil {
		return nil, err
	}

	lines := unfold(string(item.Data))
	result := &driven.ParseResult{}

	var (
		inEvent bool
		record  []contentLine
		recNum  int
	)

	discard := func(reason string) {
		result.Errors = append(result.Errors, domain.ImportError{
			ItemID:  fmt.Sprintf("%s:event %d", item.ID, recNum),
			Message: reason,
		})
		record = nil
	}

	for _, line := range lines {
		cl, ok := parseContentLine(line)
		if !ok {
			continue
		}

		switch {
		case cl.name == "BEGIN" && strings.EqualFold(cl.value, "VEVENT"):
			if inEvent {
				// Re-opened record: the open one is discarded whole.
				discard("record re-opened before END, discarded")
			}
			inEvent = true
			recNum++
			record = nil

		case cl.name == "END" && strings.EqualFold(cl.value, "VEVENT"):
			if !inEvent {
				continue
			}
			inEvent = false
			if event, err := p.recordToEvent(item, record, opts); err != nil {
				discard(err.Error())
			} else if event != nil {
				result.Events = append(result.Events, *event)
			}
			record = nil

		case inEvent:
			record = append(record, cl)
		}
	}

	if inEvent {
		discard("record not closed before end of input, discarded")
	}
	return result, nil
}

// recordToEvent converts one complete VEVENT. A nil event with nil error
// means the record lacked a required field and is skipped quietly; an
// error names the field that failed validation.
func (p *Parser) recordToEvent(item domain.ImportItem, record []contentLine, opts domain.ImportOptions) (*domain.Event, error) {
	props := make(map[string]contentLine, len(record))
	var attendees []string
	for _, cl := range record {
		if cl.name == "ATTENDEE" {
			attendees = append(attendees, cl.value)
			continue
		}
		// First occurrence wins for repeated properties.
		if _, seen := props[cl.name]; !seen {
			props[cl.name] = cl
		}
	}

	title := sanitize.CleanTitle(unescapeText(props["SUMMARY"].value))
	start, hasStart := props["DTSTART"]
	if title == "" || !hasStart {
		return nil, nil // missing required field: skipped, not errored
	}

	startsAt, err := resolveDateTime(start, opts.DateOrder)
	if err != nil {
		return nil, fmt.Errorf("bad DTSTART %q: %w", start.value, err)
	}

	var endsAt *time.Time
	if end, ok := props["DTEND"]; ok {
		if t, endErr := resolveDateTime(end, opts.DateOrder); endErr == nil {
			endsAt = &t
		}
	}

	description := sanitize.CleanDescription(unescapeText(props["DESCRIPTION"].value))
	locationName := sanitize.CleanTitle(unescapeText(props["LOCATION"].value))

	layer := classify.ClassifyFields([]string{title, description}, classify.Options{
		Extra:       opts.ExtraKeywords,
		MinScore:    opts.MinScore,
		HasLocation: locationName != "",
	}).Layer

	localID := strings.TrimSpace(props["UID"].value)
	if localID == "" {
		localID = domain.SynthesizeLocalID(item.ID, title, startsAt.Format(time.RFC3339))
	}

	metadata := make(map[string]any)
	for prop, key := range verbatimProps {
		if cl, ok := props[prop]; ok && cl.value != "" {
			metadata[key] = cl.value
		}
	}
	if len(attendees) > 0 {
		metadata["attendees"] = attendees
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	event := &domain.Event{
		ID:            uuid.New().String(),
		UserID:        opts.UserID,
		Title:         title,
		Description:   description,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		Layer:         layer,
		EventType:     "appointment",
		Source:        domain.SourceICS,
		SourceLocalID: localID,
		Metadata:      metadata,
	}
	if locationName != "" {
		event.Location = &domain.Location{Name: locationName}
	}
	return event, nil
}

// resolveDateTime routes a DTSTART/DTEND value through the date chain.
// Date-only values are distinguished from date-times by the VALUE=DATE
// parameter or by shape; a trailing Z forces UTC interpretation.
func resolveDateTime(cl contentLine, order domain.DateOrder) (time.Time, error) {
	value := strings.TrimSpace(cl.value)
	if cl.params["VALUE"] == "DATE" && len(value) > 8 {
		value = value[:8]
	}
	return dates.Resolve(value, order)
}
