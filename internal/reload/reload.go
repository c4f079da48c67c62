// Package reload re-applies configuration when its file changes on disk.
package reload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ppiankov/askmode/internal/logging"
)

// DefaultDelay is how long writes must settle before a reload.
const DefaultDelay = 500 * time.Millisecond

// ApplyFunc reloads state from disk. A failed apply keeps the previous state.
type ApplyFunc func() error

// Reloader watches files for changes and triggers ApplyFunc.
type Reloader struct {
	watcher *fsnotify.Watcher
	apply   ApplyFunc
	files   map[string]bool
	delay   time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(r *Reloader) { r.delay = d }
}

// WithLogger sets the logger for reload outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reloader) {
		if l != nil {
			r.logger = l
		}
	}
}

// New watches the directories holding paths, so files replaced by a rename
// are still seen. Missing files and empty paths are skipped.
func New(apply ApplyFunc, paths []string, opts ...Option) (*Reloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("reload: create watcher: %w", err)
	}

	r := &Reloader{
		watcher: watcher,
		apply:   apply,
		files:   map[string]bool{},
		delay:   DefaultDelay,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	dirs := map[string]bool{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		r.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("reload: watch %q: %w", dir, err)
		}
		dirs[dir] = true
	}
	return r, nil
}

// Files returns the watched file paths.
func (r *Reloader) Files() []string {
	out := make([]string, 0, len(r.files))
	for f := range r.files {
		out = append(out, f)
	}
	return out
}

// Run dispatches file events until ctx is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			if r.debounce != nil {
				r.debounce.Stop()
			}
			r.mu.Unlock()
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if !r.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				r.schedule()
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (r *Reloader) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.debounce != nil {
		r.debounce.Stop()
	}
	r.debounce = time.AfterFunc(r.delay, func() {
		if err := r.apply(); err != nil {
			r.logger.Error("hot-reload failed", "error", err)
			return
		}
		r.logger.Info("hot-reload: configuration reloaded")
	})
}
