// Package driven defines the interfaces the core depends on: format
// parsers and the persistence boundary. Implementations live under
// internal/parsers, internal/normalisers and internal/adapters/driven.
package driven
