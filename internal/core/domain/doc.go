// Package domain defines the core business entities for Chronicle.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Event: The canonical record every parser converges to
//   - Layer: One of seven fixed life-category labels
//   - ImportItem: Opaque bytes handed to the pipeline by a caller
//   - ImportResult: Events, errors and stats produced by an import run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
