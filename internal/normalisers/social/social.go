// Package social normalises the post/connection/event vendor export
// shape into canonical events.
//
// Like the takeout shape, the export is one JSON object with drifting
// container keys, resolved through fixed alias lists. The loose shape
// never leaks past this package; unrecognised top-level keys are
// ignored.
package social

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
	postKeys       = []string{"posts", "statusUpdates", "timeline"}
	connectionKeys = []string{"connections", "friends", "contacts"}
	eventKeys      = []string{"events", "eventResponses"}
)

// Ensure Parser implements the interface.
var _ driven.StructuredParser = (*Parser)(nil)

// Parser handles the post/connection/event export shape.
type Parser struct{}

// New creates a new social-style export normaliser.
func New() *Parser {
	return &Parser{}
}

// Source identifies the events this parser produces.
func (p *Parser) Source() domain.EventSource {
	return domain.SourceSocial
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
	for _, keys := range [][]string{postKeys, connectionKeys, eventKeys} {
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
	for _, keys := range [][]string{postKeys, connectionKeys, eventKeys} {
		if _, ok := probe.Slice(data, keys...); ok {
			return true
		}
	}
	return false
}

// Parse decodes the item and routes each recognised container to its
// normaliser.
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

	if posts, ok := probe.Slice(data, postKeys...); ok {
		routed = true
		normalisePosts(itemID, posts, opts, result)
	}
	if connections, ok := probe.Slice(data, connectionKeys...); ok {
		routed = true
		normaliseConnections(itemID, connections, opts, result)
	}
	if events, ok := probe.Slice(data, eventKeys...); ok {
		routed = true
		normaliseGatherings(itemID, events, opts, result)
	}

	if !routed {
		return nil, fmt.Errorf("%w: %s matches no known export container", domain.ErrUnrecognizedFormat, itemID)
	}
	return result, nil
}
