// Package parsers provides implementations of the Parser interface for
// the self-describing input formats: delimited text, calendar text and
// embedded photo metadata. Each parser owns one format and converges on
// the canonical Event type.
//
// Parsers are registered with the ParserRegistry at startup. The vendor
// JSON export normalisers live under internal/normalisers.
package parsers
