package driven

import (
	"context"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// Parser converts one import item into canonical events.
// Each parser handles specific MIME types (delimited text, calendar
// text, photo metadata, vendor JSON exports).
type Parser interface {
	// Source identifies the events this parser produces.
	Source() domain.EventSource

	// SupportedMIMETypes returns the MIME types this parser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred)
	// when several parsers claim the same MIME type.
	Priority() int

	// Detect is a cheap structural probe run after the MIME gate.
	// For vendor JSON exports it distinguishes the two export shapes;
	// the loose shape never leaks past the parser itself.
	Detect(item domain.ImportItem) bool

	// Parse converts the item. Per-record failures are reported in
	// ParseResult.Errors and do not abort the item; a non-nil error
	// means the whole item failed (unrecognized format, size ceiling,
	// corrupt input).
	Parse(ctx context.Context, item domain.ImportItem, opts domain.ImportOptions) (*ParseResult, error)
}

// StructuredParser is implemented by parsers that also accept an
// already-decoded JSON-like structure, bypassing the byte layer.
type StructuredParser interface {
	Parser

	// DetectMap probes the top level of a decoded structure.
	DetectMap(data map[string]any) bool

	// ParseMap converts a decoded structure the same way Parse
	// converts raw bytes.
	ParseMap(ctx context.Context, itemID string, data map[string]any, opts domain.ImportOptions) (*ParseResult, error)
}

// ParseResult is the outcome of parsing one item.
type ParseResult struct {
	// Events holds the canonical events the item yielded.
	Events []domain.Event

	// Errors holds per-record diagnostics for rows or records that
	// were dropped while their siblings continued.
	Errors []domain.ImportError
}
