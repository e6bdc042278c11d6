// Package normalisers provides parsers for vendor JSON exports whose
// container layout, not the declared content type, identifies the
// source. Each normaliser probes the top-level keys of a decoded JSON
// object and converts the records it recognises into canonical events.
//
// Normalisers are registered with the ParserRegistry at startup
// alongside the self-describing format parsers.
package normalisers
