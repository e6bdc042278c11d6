package driving

import (
	"context"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// Importer is the pipeline's driving port. Every entry point is a pure
// transform from fully materialised inputs to an ImportResult; reading
// bytes off disk or the network is the caller's job.
//
// All entry points honour ctx between items: an in-flight item always
// runs to completion, already-completed items are retained, and the
// returned result reflects everything finished before cancellation.
// The returned error is non-nil only for a fatal invariant violation
// or cancellation; all other failures accumulate in Result.Errors.
type Importer interface {
	// ImportItems fans a batch of raw items out to the matching
	// parsers by declared content type and merges the outcomes.
	ImportItems(ctx context.Context, items []domain.ImportItem, opts domain.ImportOptions) (*domain.ImportResult, error)

	// ImportText imports already-decoded text under a declared
	// content type (e.g. "text/csv", "text/calendar").
	ImportText(ctx context.Context, name, contentType, text string, opts domain.ImportOptions) (*domain.ImportResult, error)

	// ImportStructured imports an already-parsed JSON-like structure
	// through the vendor export normalisers.
	ImportStructured(ctx context.Context, name string, root any, opts domain.ImportOptions) (*domain.ImportResult, error)
}
