// Package watch runs a callback when files under a set of paths change,
// coalescing bursts of filesystem events into a single call.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// ErrNothingToWatch is returned by Run when none of the paths could be watched.
var ErrNothingToWatch = errors.New("no watchable paths")

// Config describes what to watch.
type Config struct {
	// Paths are files or directories to watch (non-recursive).
	Paths []string
	// Trees are directories watched together with every subdirectory,
	// including subdirectories created while the watcher runs.
	Trees []string
	// Filter selects relevant events; nil accepts all writes, creates,
	// removes and renames.
	Filter func(fsnotify.Event) bool
	// Debounce is the quiet period after the last event before the
	// callback runs.
	Debounce time.Duration
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Triggers      int
	CallbackError int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher calls OnChange once per burst of relevant filesystem events.
type Watcher struct {
	cfg       Config
	onChange  func(context.Context) error
	logger    *zap.Logger
	ready     chan struct{}
	readyOnce sync.Once

	mu    sync.Mutex
	stats Stats
}

// New creates a watcher. onChange runs on the watcher goroutine; its errors
// are logged and counted but do not stop the watcher.
func New(cfg Config, onChange func(context.Context) error, logger *zap.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		cfg:      cfg,
		onChange: onChange,
		logger:   logger.Named("watch"),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once all watchable paths have been registered, or when
// Run returns without getting that far.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
// Run may be called again after it returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.markReady()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	added := 0
	for _, p := range w.cfg.Paths {
		if w.add(fw, p) {
			added++
		}
	}
	treeDirs := make(map[string]bool)
	for _, root := range w.cfg.Trees {
		added += w.addTree(fw, root, treeDirs)
	}
	if added == 0 {
		return ErrNothingToWatch
	}
	w.markReady()

	timer := time.NewTimer(w.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && treeDirs[filepath.Dir(event.Name)] {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addTree(fw, event.Name, treeDirs)
				}
			}
			if !w.accept(event) {
				continue
			}
			w.mu.Lock()
			w.stats.Events++
			w.stats.LastEventPath = event.Name
			w.stats.LastEventTime = time.Now()
			w.mu.Unlock()

			pending = true
			timer.Reset(w.cfg.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			w.fire(ctx)
		}
	}
}

func (w *Watcher) markReady() {
	w.readyOnce.Do(func() { close(w.ready) })
}

func (w *Watcher) add(fw *fsnotify.Watcher, p string) bool {
	if _, err := os.Stat(p); err != nil {
		w.logger.Warn("skipping path", zap.String("path", p), zap.Error(err))
		return false
	}
	if err := fw.Add(p); err != nil {
		w.logger.Warn("cannot watch path", zap.String("path", p), zap.Error(err))
		return false
	}
	w.logger.Debug("watching", zap.String("path", p))
	return true
}

// addTree watches root and every directory below it, recording each in
// dirs. It returns the number of directories added.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string, dirs map[string]bool) int {
	added := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || dirs[path] {
			return nil
		}
		if w.add(fw, path) {
			dirs[path] = true
			added++
		}
		return nil
	})
	if err != nil {
		w.logger.Warn("cannot walk tree", zap.String("path", root), zap.Error(err))
	}
	return added
}

func (w *Watcher) accept(event fsnotify.Event) bool {
	if w.cfg.Filter != nil {
		return w.cfg.Filter(event)
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) fire(ctx context.Context) {
	w.mu.Lock()
	w.stats.Triggers++
	w.mu.Unlock()

	if err := w.onChange(ctx); err != nil {
		w.mu.Lock()
		w.stats.CallbackError++
		w.mu.Unlock()
		w.logger.Error("change handler failed", zap.Error(err))
	}
}
