// Package watch drives incremental rebuilds: it watches the directories
// tracked during entry resolution and signals a rebuild when a changed path
// matches one of the resolved glob patterns.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/yaklabco/sheaf/internal/log"
)

// Watcher owns one fsnotify watcher and the compiled patterns used to
// filter its events. Unlike older iterations of this code, all state is
// instance-scoped; one watcher drives one pipeline.
type Watcher struct {
	fsw   *fsnotify.Watcher
	rerun chan struct{}

	mu       sync.Mutex
	globs    []glob.Glob
	patterns []string
	watched  map[string]struct{}
}

// New creates a watcher over the given directories, filtering events
// through the given glob patterns. Directories are watched recursively;
// patterns use doublestar syntax and are matched against absolute paths.
func New(dirs, patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		rerun:   make(chan struct{}, 1),
		watched: make(map[string]struct{}),
	}

	if err := w.SetPatterns(patterns); err != nil {
		_ = fsw.Close() //nolint:errcheck // already failing
		return nil, err
	}
	if err := w.Track(dirs); err != nil {
		_ = fsw.Close() //nolint:errcheck // already failing
		return nil, err
	}

	go w.loop()

	return w, nil
}

// SetPatterns replaces the event-filter patterns. Each pattern is made
// absolute before compiling, since fsnotify reports paths relative to the
// watched directory's registration and we normalize everything to absolute.
func (w *Watcher) SetPatterns(patterns []string) error {
	compiled := make([]glob.Glob, 0, len(patterns))
	abs := make([]string, 0, len(patterns))
	for _, p := range patterns {
		absP := p
		if !filepath.IsAbs(p) {
			if a, err := filepath.Abs(p); err == nil {
				absP = a
			}
		}

		slashed := filepath.ToSlash(absP)
		variants := []string{slashed}
		// In doublestar syntax "**" also matches zero directories, so
		// "src/**/*.ts" covers "src/a.ts". Compile the collapsed variant
		// alongside so top-level files match here too.
		if strings.Contains(slashed, "/**/") {
			variants = append(variants, strings.ReplaceAll(slashed, "/**/", "/"))
		}
		for _, v := range variants {
			g, err := glob.Compile(v)
			if err != nil {
				return err
			}
			compiled = append(compiled, g)
		}
		abs = append(abs, absP)
	}

	w.mu.Lock()
	w.globs = compiled
	w.patterns = abs
	w.mu.Unlock()
	return nil
}

// Track adds directories (and their subdirectories) to the watch set.
// Already-watched directories are skipped, so Track is safe to call after
// every re-resolve.
func (w *Watcher) Track(dirs []string) error {
	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !info.IsDir() {
				return nil
			}
			return w.addDir(path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) addDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	w.mu.Lock()
	_, seen := w.watched[abs]
	if !seen {
		w.watched[abs] = struct{}{}
	}
	w.mu.Unlock()

	if seen {
		return nil
	}
	return w.fsw.Add(abs)
}

// Rebuilds returns the channel that receives a signal per coalesced batch
// of matching changes.
func (w *Watcher) Rebuilds() <-chan struct{} {
	return w.rerun
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := w.handleChange(event.Name); err != nil {
					slog.Error("failed to handle file change",
						log.Path, event.Name,
						log.Error, err,
					)
				}
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// handleChange processes one changed path: newly created directories join
// the watch set, and paths matching any pattern signal a rebuild. The
// signal channel is buffered; a pending signal absorbs further matches.
func (w *Watcher) handleChange(path string) error {
	abs := path
	if !filepath.IsAbs(path) {
		if a, err := filepath.Abs(path); err == nil {
			abs = a
		}
	}

	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		if err := w.addDir(abs); err != nil {
			return err
		}
	}

	if !w.matches(abs) {
		return nil
	}

	select {
	case w.rerun <- struct{}{}:
	default:
	}
	return nil
}

func (w *Watcher) matches(absPath string) bool {
	slashed := filepath.ToSlash(absPath)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, g := range w.globs {
		if g.Match(slashed) {
			return true
		}
	}
	return false
}

// Run blocks, invoking fn once per rebuild signal, until the context is
// cancelled. Errors from fn are logged, not fatal; the loop keeps serving
// subsequent changes.
func (w *Watcher) Run(ctx context.Context, fn func() error) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.rerun:
			slog.Info("change detected, re-running build")
			if err := fn(); err != nil {
				slog.Error("rebuild failed", log.Error, err)
			}
		}
	}
}
