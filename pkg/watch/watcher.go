// Package watch reloads the catalog when its definition files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/util"
)

// DefaultDebounce groups bursts of editor writes into one reload.
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc is called with the sorted set of changed files once events
// settle.
type ReloadFunc func(changed []string) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// Patterns select which files trigger reloads and which directories are
	// skipped, relative to the watched root.
	Patterns catalog.DiscoverConfig
}

// DefaultOptions watches catalog fragments with the default debounce.
func DefaultOptions() Options {
	return Options{Debounce: DefaultDebounce, Patterns: catalog.DefaultDiscoverConfig()}
}

// Watcher watches a directory tree and calls a ReloadFunc when matching
// files are written, created, removed or renamed.
//
//	w, err := watch.New(root, reload, watch.DefaultOptions(), cache, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	reload  ReloadFunc
	cache   *util.SourceCache
	logger  *slog.Logger
	options Options

	// Debouncing
	pending map[string]struct{}
	timer   *time.Timer
	pendMu  sync.Mutex

	// Lifecycle
	stopChan chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
	loopDone sync.WaitGroup

	reloads atomic.Int64
	failed  atomic.Int64
}

// New creates a Watcher over root. cache, when non-nil, has changed files
// invalidated before each reload.
func New(root string, reload ReloadFunc, options Options, cache *util.SourceCache, logger *slog.Logger) (*Watcher, error) {
	if err := options.Patterns.Validate(); err != nil {
		return nil, err
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch root: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		root:     absRoot,
		reload:   reload,
		cache:    cache,
		logger:   logger,
		options:  options,
		pending:  make(map[string]struct{}),
		stopChan: make(chan struct{}),
	}, nil
}

// Start adds root and its subdirectories and begins processing events in
// the background. The watcher stops when ctx is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if w.started {
		return fmt.Errorf("watcher already started")
	}

	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.started = true

	w.logger.Info("catalog watcher started", "root", w.root, "debounce", w.options.Debounce)

	w.loopDone.Add(1)
	go w.eventLoop(ctx)
	return nil
}

// Stop stops the watcher and cancels any pending reload. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	w.mu.Unlock()

	w.pendMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = make(map[string]struct{})
	w.pendMu.Unlock()

	err := w.watcher.Close()
	w.loopDone.Wait()
	w.logger.Info("catalog watcher stopped", "reloads", w.reloads.Load())
	return err
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer w.loopDone.Done()
	for {
		select {
		case <-w.stopChan:
			return

		case <-ctx.Done():
			go w.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("catalog watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	rel, ok := w.relative(path)
	if !ok || w.options.Patterns.Excluded(rel) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !w.options.Patterns.Included(rel) {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.logger.Debug("catalog file event", "op", event.Op.String(), "file", path)
		w.schedule(path)
	}
}

// schedule records path and restarts the debounce timer.
func (w *Watcher) schedule(path string) {
	w.pendMu.Lock()
	defer w.pendMu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.options.Debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendMu.Lock()
	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = make(map[string]struct{})
	w.timer = nil
	w.pendMu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	if w.cache != nil {
		for _, path := range changed {
			w.cache.Invalidate(path)
		}
	}

	w.reloads.Add(1)
	if err := w.reload(changed); err != nil {
		w.failed.Add(1)
		w.logger.Warn("catalog reload failed, keeping previous catalog", "changed", len(changed), "error", err)
		return
	}
	w.logger.Info("catalog reloaded", "changed", len(changed))
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.relative(path); ok && rel != "." && w.options.Patterns.Excluded(rel) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Stats returns watcher counters.
func (w *Watcher) Stats() Stats {
	w.pendMu.Lock()
	pending := len(w.pending)
	w.pendMu.Unlock()

	w.mu.Lock()
	running := w.started && !w.stopped
	w.mu.Unlock()

	return Stats{
		Pending: pending,
		Reloads: w.reloads.Load(),
		Failed:  w.failed.Load(),
		Running: running,
	}
}

// Stats contains watcher counters.
type Stats struct {
	Pending int
	Reloads int64
	Failed  int64
	Running bool
}
