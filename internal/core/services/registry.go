package services

import (
	"sort"
	"strings"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
)

// ParserRegistry holds the registered parsers in priority order and
// selects one per item by declared content type plus structural probe.
type ParserRegistry struct {
	parsers []driven.Parser
}

// NewParserRegistry creates an empty registry. Parsers are registered
// at startup; the registry is read-only afterwards.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{}
}

// Register adds a parser, keeping the list sorted by priority
// descending. Registration order breaks priority ties.
func (r *ParserRegistry) Register(parser driven.Parser) {
	r.parsers = append(r.parsers, parser)
	sort.SliceStable(r.parsers, func(i, j int) bool {
		return r.parsers[i].Priority() > r.parsers[j].Priority()
	})
}

// Select returns the highest-priority parser that claims the item's
// content type and passes its structural probe. An item without a
// declared content type is probed against every parser.
func (r *ParserRegistry) Select(item domain.ImportItem) (driven.Parser, bool) {
	contentType := NormalizeContentType(item.ContentType)
	for _, parser := range r.parsers {
		if contentType != "" && !supportsType(parser, contentType) {
			continue
		}
		if parser.Detect(item) {
			return parser, true
		}
	}
	return nil, false
}

// SelectStructured returns the highest-priority structured parser whose
// probe recognises the decoded shape.
func (r *ParserRegistry) SelectStructured(data map[string]any) (driven.StructuredParser, bool) {
	for _, parser := range r.parsers {
		structured, ok := parser.(driven.StructuredParser)
		if !ok {
			continue
		}
		if structured.DetectMap(data) {
			return structured, true
		}
	}
	return nil, false
}

// SupportedMIMETypes returns every content type some parser claims.
func (r *ParserRegistry) SupportedMIMETypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, parser := range r.parsers {
		for _, mimeType := range parser.SupportedMIMETypes() {
			if !seen[mimeType] {
				seen[mimeType] = true
				types = append(types, mimeType)
			}
		}
	}
	sort.Strings(types)
	return types
}

// NormalizeContentType lowercases a MIME type and drops parameters
// such as "; charset=utf-8".
func NormalizeContentType(contentType string) string {
	contentType, _, _ = strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(contentType))
}

func supportsType(parser driven.Parser, contentType string) bool {
	for _, mimeType := range parser.SupportedMIMETypes() {
		if mimeType == contentType {
			return true
		}
	}
	return false
}
