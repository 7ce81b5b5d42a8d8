// Package watch re-runs an action whenever a file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/specgen/internal/debug"
)

// DefaultDebounce is the quiet period after the last change event before
// the action runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a single file for changes.
type Watcher struct {
	file     string
	action   func(context.Context) error
	debounce time.Duration
	onError  func(error)
	watcher  *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce interval. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the function receiving action and watcher errors.
// By default they are logged.
func WithErrorHandler(f func(error)) Option {
	return func(w *Watcher) {
		if f != nil {
			w.onError = f
		}
	}
}

// New creates a watcher running action after file changes. The directory
// of the file is watched, so editors replacing the file are detected.
func New(file string, action func(context.Context) error, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", file, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{
		file:     abs,
		action:   action,
		debounce: DefaultDebounce,
		onError: func(err error) {
			debug.Error("watch", "file", abs, "error", err)
		},
		watcher: fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// File returns the absolute path of the watched file.
func (w *Watcher) File() string { return w.file }

// Run blocks until ctx is done, running the action once per burst of
// changes. Action errors do not stop the watcher. The underlying watcher is
// closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			debug.Debug("change detected", "file", w.file, "op", ev.Op.String())
			timer.Reset(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.action(ctx); err != nil {
				w.onError(err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	p, err := filepath.Abs(ev.Name)
	return err == nil && p == w.file
}
