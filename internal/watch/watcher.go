// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when catalog files change.
//
// A Watcher observes one directory and reports the files whose names match
// its glob patterns. Events that arrive within the debounce window are
// coalesced, so an editor's write-then-rename produces a single callback.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrNoPatterns is returned by New when Config.Patterns is empty.
	ErrNoPatterns = errors.New("watch: no patterns")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dir is the directory to observe. Empty means the working directory.
		Dir string
		// Patterns are doublestar globs matched against file names relative
		// to Dir, e.g. "blog.cue" or "*.{cue,toml}".
		Patterns []string
		// Debounce is the quiet period after the last event before OnChange runs.
		Debounce time.Duration
		// OnChange receives the sorted, deduplicated changed paths relative to Dir.
		// Its error is reported to Stderr and does not stop the watcher.
		OnChange func(ctx context.Context, changed []string) error
		// Stderr receives non-fatal errors. Nil means os.Stderr.
		Stderr io.Writer
	}

	// Watcher observes a directory until its context is canceled.
	Watcher struct {
		cfg      Config
		dir      string
		debounce time.Duration
		stderr   io.Writer
		fsw      *fsnotify.Watcher
		started  atomic.Bool
	}
)

// New validates cfg and starts observing cfg.Dir.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Patterns) == 0 {
		return nil, ErrNoPatterns
	}
	for _, pat := range cfg.Patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: add directory %q: %w", abs, err)
	}

	w := &Watcher{
		cfg:      cfg,
		dir:      abs,
		debounce: cfg.Debounce,
		stderr:   cfg.Stderr,
		fsw:      fsw,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.stderr == nil {
		w.stderr = os.Stderr
	}
	return w, nil
}

// Dir returns the absolute directory being observed.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run processes events until ctx is canceled. It returns nil on
// cancellation and an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", err)
		}
	}()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			rel, matched := w.match(evt.Name)
			if !matched {
				continue
			}
			pending[rel] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for rel := range pending {
				changed = append(changed, rel)
			}
			slices.Sort(changed)
			clear(pending)

			if w.cfg.OnChange != nil {
				if err := w.cfg.OnChange(ctx, changed); err != nil {
					fmt.Fprintf(w.stderr, "watch: %v\n", err)
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// match reports whether path matches one of the patterns, and returns it
// relative to the watched directory.
func (w *Watcher) match(path string) (string, bool) {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range w.cfg.Patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return rel, true
		}
	}
	return "", false
}
