// Package takeout normalises the location/calendar/notes vendor export
// shape into canonical events.
//
// The export is a single JSON object whose top-level containers have
// drifted across archive generations; each container is looked up
// through a fixed alias list and the loose shape never leaks past this
// package. Unrecognised top-level keys are ignored.
package takeout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/probe"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// MIMEType is the declared content type for vendor JSON exports.
const MIMEType = "application/json"

// Container key aliases, tried in order; the first present wins.
var (
	locationKeys = []string{"locations", "timelineObjects", "locationHistory"}
	calendarKeys = []string{"calendar", "calendarItems", "calendarEvents"}
	noteKeys     = []string{"notes", "keep", "memos"}
)

// Ensure Parser implements the interface.
var _ driven.StructuredParser = (*Parser)(nil)

// Parser handles the location/calendar/notes export shape.
type Parser struct{}

// New creates a new takeout-style export normaliser.
func New() *Parser {
	return &Parser{}
}

// Source identifies the events this parser produces.
func (p *Parser) Source() domain.EventSource {
	return domain.SourceTakeout
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (p *Parser) Priority() int {
	return 80 // Shape-probing vendor parser
}

// Detect probes the top level of the document for a known container
// key. Only the outermost object is decoded.
func (p *Parser) Detect(item domain.ImportItem) bool {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(item.Data, &top); err != nil {
		return false
	}
	for _, keys := range [][]string{locationKeys, calendarKeys, noteKeys} {
		for _, k := range keys {
			if _, ok := top[k]; ok {
				return true
			}
		}
	}
	return false
}

// DetectMap probes an already-decoded structure for a known container.
func (p *Parser) DetectMap(data map[string]any) bool {
	for _, keys := range [][]string{locationKeys, calendarKeys, noteKeys} {
		if _, ok := probe.Slice(data, keys...); ok {
			return true
		}
	}
	return false
}

// Parse decodes the item and routes each recognised container to its
// normaliser. An item matching none of the known containers is an
// unrecognized format.
func (p *Parser) Parse(ctx context.Context, item domain.ImportItem, opts domain.ImportOptions) (*driven.ParseResult, error) {
	opts = opts.Normalise()

	if err := sanitize.CheckSize(item.ID, len(item.Data), opts.MaxItemBytes); err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(item.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON object", domain.ErrUnrecognizedFormat, item.Name)
	}
	return p.ParseMap(ctx, item.ID, data, opts)
}

// ParseMap normalises an already-decoded export structure.
func (p *Parser) ParseMap(_ context.Context, itemID string, data map[string]any, opts domain.ImportOptions) (*driven.ParseResult, error) {
	opts = opts.Normalise()
	result := &driven.ParseResult{}
	routed := false

	if fixes, ok := probe.Slice(data, locationKeys...); ok {
		routed = true
		normaliseLocations(itemID, fixes, opts, result)
	}
	if items, ok := probe.Slice(data, calendarKeys...); ok {
		routed = true
		normaliseCalendar(itemID, items, opts, result)
	}
	if notes, ok := probe.Slice(data, noteKeys...); ok {
		routed = true
		normaliseNotes(itemID, notes, opts, result)
	}

	if !routed {
		return nil, fmt.Errorf("%w: %s matches no known export container", domain.ErrUnrecognizedFormat, itemID)
	}
	return result, nil
}
