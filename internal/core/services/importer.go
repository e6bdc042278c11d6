package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driving"
	"github.com/chronicle-labs/chronicle-cli/internal/logger"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// Ensure ImportService implements the interface.
var _ driving.Importer = (*ImportService)(nil)

// Content types the pipeline never attempts. They routinely co-occur
// with vendor exports (an archive ships its own viewer pages), so they
// are counted as skipped rather than reported as errors.
var gatedContentTypes = map[string]bool{
	"text/html":              true,
	"application/xhtml+xml":  true,
	"text/css":               true,
	"text/javascript":        true,
	"application/javascript": true,
	"image/png":              true,
	"image/gif":              true,
	"image/webp":             true,
	"video/mp4":              true,
	"audio/mpeg":             true,
	"application/zip":        true,
	"application/pdf":        true,
}

// gatedExtensions covers the same categories for items declared
// without a content type.
var gatedExtensions = map[string]bool{
	".html": true, ".htm": true, ".xhtml": true,
	".css": true, ".js": true,
	".png": true, ".gif": true, ".webp": true,
	".mp4": true, ".mp3": true,
	".zip": true, ".pdf": true,
}

// ImportService is the pipeline orchestrator. It fans a batch of items
// out to the registered parsers and merges per-item outcomes into one
// result. Each item's parse is pure and bounded, so items run on a
// bounded worker pool with the final merge as the only synchronization
// point.
type ImportService struct {
	registry *ParserRegistry
}

// NewImportService creates a new import service.
func NewImportService(registry *ParserRegistry) *ImportService {
	return &ImportService{registry: registry}
}

// itemOutcome is one item's contribution to the merged result.
type itemOutcome struct {
	result domain.ImportResult
	fatal  error
}

// ImportItems parses a batch of items concurrently and merges the
// outcomes. Cancellation takes effect between items: in-flight parses
// run to completion and their events are retained. A fatal parse error
// stops the feed and is returned alongside the partial result.
func (s *ImportService) ImportItems(ctx context.Context, items []domain.ImportItem, opts domain.ImportOptions) (*domain.ImportResult, error) {
	opts = opts.Normalise()

	logger.Section("Import")
	logger.Info("importing %d items with %d workers", len(items), opts.Workers)

	result := &domain.ImportResult{}
	result.Stats.ItemsSubmitted = len(items)

	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()

	jobs := make(chan domain.ImportItem)
	outcomes := make(chan itemOutcome)

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				outcomes <- s.processItem(item, opts)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range items {
			select {
			case jobs <- item:
			case <-feedCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var fatal error
	for outcome := range outcomes {
		result.Merge(outcome.result)
		if outcome.fatal != nil && fatal == nil {
			fatal = outcome.fatal
			stopFeed()
		}
	}

	if fatal != nil {
		return result, fatal
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// ImportText imports already-decoded text under a declared content type.
func (s *ImportService) ImportText(ctx context.Context, name, contentType, text string, opts domain.ImportOptions) (*domain.ImportResult, error) {
	item := domain.ImportItem{
		ID:          name,
		Name:        name,
		ContentType: contentType,
		Data:        []byte(text),
	}
	return s.ImportItems(ctx, []domain.ImportItem{item}, opts)
}

// ImportStructured routes an already-parsed JSON-like structure through
// the vendor export normalisers. A structure matching no known export
// shape yields one error and an otherwise empty result.
func (s *ImportService) ImportStructured(ctx context.Context, name string, root any, opts domain.ImportOptions) (*domain.ImportResult, error) {
	opts = opts.Normalise()

	result := &domain.ImportResult{}
	result.Stats.ItemsSubmitted = 1

	data, ok := root.(map[string]any)
	if !ok {
		result.Stats.ItemsSkipped++
		result.Errors = append(result.Errors, domain.ImportError{
			ItemID:  name,
			Message: "structured input is not a JSON object",
		})
		return result, nil
	}

	parser, found := s.registry.SelectStructured(data)
	if !found {
		result.Stats.ItemsSkipped++
		result.Errors = append(result.Errors, domain.ImportError{
			ItemID:  name,
			Message: fmt.Sprintf("%v: matches no known export shape", domain.ErrUnrecognizedFormat),
		})
		return result, nil
	}

	parsed, err := parser.ParseMap(ctx, name, data, opts)
	if err != nil {
		if domain.IsFatal(err) {
			return result, err
		}
		result.Errors = append(result.Errors, domain.ImportError{ItemID: name, Message: err.Error()})
		return result, nil
	}

	result.Stats.ItemsProcessed++
	result.Events = append(result.Events, parsed.Events...)
	result.Errors = append(result.Errors, parsed.Errors...)
	for _, event := range parsed.Events {
		result.Stats.CountEvent(event.Layer)
	}
	return result, nil
}

// processItem gates, selects and parses one item. It never blocks on
// anything but the parse itself.
func (s *ImportService) processItem(item domain.ImportItem, opts domain.ImportOptions) itemOutcome {
	var outcome itemOutcome

	if gatedOut(item) {
		logger.Debug("skipping %s: gated content type %q", item.ID, item.ContentType)
		outcome.result.Stats.ItemsSkipped++
		return outcome
	}

	// The byte ceiling is enforced here so every parser inherits it,
	// whether or not it checks on its own.
	if err := sanitize.CheckSize(item.ID, len(item.Data), opts.MaxItemBytes); err != nil {
		logger.Warn("item %s rejected: %v", item.ID, err)
		outcome.result.Errors = append(outcome.result.Errors, domain.ImportError{
			ItemID:  item.ID,
			Message: err.Error(),
		})
		return outcome
	}

	parser, found := s.registry.Select(item)
	if !found {
		logger.Debug("skipping %s: no parser claims it", item.ID)
		outcome.result.Stats.ItemsSkipped++
		return outcome
	}

	parsed, err := parser.Parse(context.Background(), item, opts)
	if err != nil {
		if domain.IsFatal(err) {
			outcome.fatal = err
			return outcome
		}
		logger.Warn("item %s failed: %v", item.ID, err)
		outcome.result.Errors = append(outcome.result.Errors, domain.ImportError{
			ItemID:  item.ID,
			Message: err.Error(),
		})
		return outcome
	}

	outcome.result.Stats.ItemsProcessed++
	outcome.result.Events = append(outcome.result.Events, parsed.Events...)
	outcome.result.Errors = append(outcome.result.Errors, parsed.Errors...)
	for _, event := range parsed.Events {
		outcome.result.Stats.CountEvent(event.Layer)
	}
	logger.Debug("item %s: %d events, %d record errors", item.ID, len(parsed.Events), len(parsed.Errors))
	return outcome
}

// gatedOut reports whether the item belongs to a category the pipeline
// never attempts.
func gatedOut(item domain.ImportItem) bool {
	if contentType := NormalizeContentType(item.ContentType); contentType != "" {
		return gatedContentTypes[contentType]
	}
	ext := strings.ToLower(filepath.Ext(item.Name))
	return gatedExtensions[ext]
}
