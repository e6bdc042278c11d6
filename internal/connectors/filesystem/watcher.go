package filesystem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chronicle-labs/chronicle-cli/internal/logger"
)

// debounceWindow batches the write bursts editors and archive
// extractors produce into a single notification per file.
const debounceWindow = 250 * time.Millisecond

// Watcher reports files created or modified under a directory. Events
// are debounced per path so a file is announced once per burst of
// writes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	closed   bool
	debounce time.Duration
}

// NewWatcher creates a directory watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{watcher: fw, debounce: debounceWindow}, nil
}

// Watch announces files created or written under dir on the returned
// channel until ctx is cancelled. The channel is closed on
// cancellation or watcher error.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, fmt.Errorf("watcher is closed")
	}
	if err := w.watcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	changes := make(chan string)
	go w.run(ctx, changes)
	return changes, nil
}

// Close stops the watcher. Idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}

// run forwards debounced create/write events until ctx is cancelled.
func (w *Watcher) run(ctx context.Context, changes chan<- string) {
	defer close(changes)

	pending := make(map[string]struct{})
	var flush *time.Timer
	var flushC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			pending[event.Name] = struct{}{}
			if flush == nil {
				flush = time.NewTimer(w.debounce)
			} else {
				flush.Reset(w.debounce)
			}
			flushC = flush.C

		case <-flushC:
			for path := range pending {
				select {
				case changes <- path:
				case <-ctx.Done():
					return
				}
			}
			pending = make(map[string]struct{})
			flushC = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)
		}
	}
}
