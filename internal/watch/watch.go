// =============================================================================
// Comma Fixer - Watch Mode
// =============================================================================
//
// This module keeps a source tree repaired while it is being edited. It
// watches the root directory and every non-excluded subdirectory, collects
// create/write events for matching files and repairs each file once it has
// been quiet for the debounce interval.
//
// LOOP SAFETY:
//   Repairing a file writes it, which produces another event. The engine is
//   idempotent, so the second pass finds nothing to do and writes nothing.
//
// =============================================================================

package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ginjaninja78/commafix/internal/logging"
	"github.com/ginjaninja78/commafix/internal/rewriter"
	"github.com/ginjaninja78/commafix/internal/types"
	"github.com/ginjaninja78/commafix/internal/walker"
)

// DefaultDebounce is how long a file must be quiet before it is repaired.
const DefaultDebounce = 300 * time.Millisecond

// minTick is the shortest interval at which pending files are checked.
const minTick = time.Millisecond

// Options controls what is watched.
type Options struct {
	Root       string
	Extensions []string
	Exclude    []string
	Debounce   time.Duration

	// OnResult, if set, is called after every repair attempt from the
	// watcher goroutine.
	OnResult func(types.FileResult)
}

// Watcher repairs files as they change.
type Watcher struct {
	opts   Options
	rw     *rewriter.Rewriter
	logger logging.Logger
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a watcher and registers the directory tree under opts.Root.
// Events that happen after New returns are observed.
func New(opts Options, rw *rewriter.Rewriter, logger logging.Logger) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.Nop()
	}

	if resolved, err := filepath.EvalSymlinks(opts.Root); err == nil {
		opts.Root = resolved
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		opts:    opts,
		rw:      rw,
		logger:  logger,
		fsw:     fsw,
		pending: make(map[string]time.Time),
	}

	if err := w.addTree(opts.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is cancelled. It always closes the
// underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	ticker := time.NewTicker(tickInterval(w.opts.Debounce))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnf("Watcher error: %v", err)

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

// tickInterval is a third of the debounce, never below minTick.
func tickInterval(debounce time.Duration) time.Duration {
	if tick := debounce / 3; tick >= minTick {
		return tick
	}
	return minTick
}

// handleEvent records matching file changes and starts watching new
// directories.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Removed again before we looked.
		return
	}

	rel, err := filepath.Rel(w.opts.Root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if info.IsDir() {
		if event.Has(fsnotify.Create) && !walker.IsExcluded(rel+"/", w.opts.Exclude) {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warnf("Failed to watch %s: %v", event.Name, err)
			}
		}
		return
	}

	if !info.Mode().IsRegular() || walker.IsExcluded(rel, w.opts.Exclude) || !walker.HasExtension(event.Name, w.opts.Extensions) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
	w.logger.Debugf("Change detected: %s", event.Name)
}

// flush repairs every pending file that has been quiet long enough.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string

	w.mu.Lock()
	for path, seen := range w.pending {
		if now.Sub(seen) >= w.opts.Debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		result := w.rw.RewriteFile(ctx, path)
		if w.opts.OnResult != nil {
			w.opts.OnResult(result)
		}
	}
}

// addTree watches dir and every non-excluded directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(w.opts.Root, path)
		if err != nil {
			return err
		}
		if rel = filepath.ToSlash(rel); rel != "." && walker.IsExcluded(rel+"/", w.opts.Exclude) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
