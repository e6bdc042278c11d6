// Package exif extracts embedded photo metadata from JPEG buffers and
// turns each photo into a canonical event.
//
// The extractor locates exactly one metadata container by scanning the
// marker stream; it never decodes image data. Absent metadata is a
// normal outcome, not an error. Declared lengths that reach past the
// buffer end are corrupt input and propagate as fatal errors.
package exif

import (
	"context"
	"fmt"
	"path/filepath"
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

// Parser handles JPEG photos with embedded metadata.
type Parser struct{}

// New creates a new photo metadata parser.
func New() *Parser {
	return &Parser{}
}

// Source identifies the events this parser produces.
func (p *Parser) Source() domain.EventSource {
	return domain.SourceEXIF
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{
		"image/jpeg",
		"image/jpg",
	}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 50 // Generic MIME parser
}

// Detect accepts buffers opening with the JPEG start-of-image signature.
func (p *Parser) Detect(item domain.ImportItem) bool {
	return len(item.Data) >= 2 && item.Data[0] == 0xFF && item.Data[1] == markerSOI
}

// Parse extracts the metadata container and emits at most one event.
// A photo without metadata, or without any resolvable timestamp, yields
// no event and no error.
func (p *Parser) Parse(_ context.Context, item domain.ImportItem, opts domain.ImportOptions) (*driven.ParseResult, error) {
	opts = opts.Normalise()

	payload, err := findExifPayload(item.Data)
	if err != nil {
		return nil, err
	}

	result := &driven.ParseResult{}

	var md *metadata
	if payload != nil {
		md, err = parseTIFF(payload)
		if err != nil {
			return nil, err
		}
	} else {
		md = &metadata{}
	}

	// Prefer the original capture timestamp, then the digitized and
	// file-modified ones; a date embedded in the file name is the
	// low-confidence last resort.
	startsAt, err := dates.BestOf(opts.DateOrder, md.captureTime, md.digitizedTime, md.fileTime)
	if err != nil {
		if startsAt, err = dates.FromPath(item.Name); err != nil {
			return result, nil // no timestamp, no event
		}
	}

	result.Events = append(result.Events, p.buildEvent(item, md, startsAt, opts))
	return result, nil
}

func (p *Parser) buildEvent(item domain.ImportItem, md *metadata, startsAt time.Time, opts domain.ImportOptions) domain.Event {
	description := sanitize.CleanDescription(md.description)

	title := sanitize.CleanTitle(md.description)
	if title == "" {
		title = titleFromName(item.Name)
	}

	var location *domain.Location
	hasFix := md.latitude != nil && md.longitude != nil && sanitize.ValidCoordinates(*md.latitude, *md.longitude)
	if hasFix {
		location = &domain.Location{
			Latitude:       *md.latitude,
			Longitude:      *md.longitude,
			HasCoordinates: true,
		}
	}

	layer := classify.ClassifyFields([]string{title, description}, classify.Options{
		Extra:       opts.ExtraKeywords,
		MinScore:    opts.MinScore,
		HasLocation: hasFix,
	}).Layer

	meta := make(map[string]any)
	if md.make != "" {
		meta["camera_make"] = md.make
	}
	if md.model != "" {
		meta["camera_model"] = md.model
	}
	if md.software != "" {
		meta["software"] = md.software
	}
	if md.orientation != 0 {
		meta["orientation"] = md.orientation
	}
	if md.altitude != nil {
		meta["altitude"] = *md.altitude
	}
	if len(meta) == 0 {
		meta = nil
	}

	return domain.Event{
		ID:            uuid.New().String(),
		UserID:        opts.UserID,
		Title:         title,
		Description:   description,
		StartsAt:      startsAt,
		Layer:         layer,
		EventType:     "photo",
		Source:        domain.SourceEXIF,
		SourceLocalID: domain.SynthesizeLocalID(item.Name, startsAt.Format(time.RFC3339)),
		Location:      location,
		MediaRefs:     []string{item.Name},
		Metadata:      meta,
	}
}

// titleFromName derives a human-readable title from the file name.
func titleFromName(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	title := sanitize.CleanTitle(base)
	if title == "" {
		return "Photo"
	}
	return fmt.Sprintf("Photo %s", title)
}
