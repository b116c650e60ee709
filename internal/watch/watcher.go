// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a stylesheet pass when the stylesheet or one of its
// data modules changes.
//
// The watcher tracks an explicit set of files, normally the stylesheet plus
// the dependencies registered by the last pass, and can be retargeted with
// Track after every run. Parent directories are watched rather than the files
// themselves so that editors replacing a file through a rename are still
// noticed. Extra doublestar glob patterns can widen the set. Events within the
// debounce window are coalesced so the callback fires once with every changed
// path.
package watch

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the onChange callback after the
// last filesystem event.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores lists path patterns that never trigger a re-run: editor swap
// and backup files and OS metadata written next to the watched files.
var defaultIgnores = []string{
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.#*",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Files are the initially tracked files. Relative paths are resolved
		// against BaseDir.
		Files []string

		// Include are doublestar-compatible glob patterns, relative to
		// BaseDir, selecting additional files that trigger callbacks.
		Include []string

		// Ignore are additional doublestar-compatible glob patterns for paths
		// that should never trigger callbacks. They are matched against
		// slash-separated absolute paths and merged with the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen controls whether the terminal is cleared before each
		// callback invocation by writing ANSI escape sequences to Stdout.
		ClearScreen bool

		// BaseDir anchors relative files and include patterns. An empty value
		// defaults to the current working directory.
		BaseDir string

		// OnChange is called after the debounce window closes with the
		// deduplicated, sorted list of changed absolute paths. A nil callback
		// is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout and Stderr are the output writers for informational and error
		// messages respectively. nil values default to os.Stdout / os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Watcher monitors a set of files and fires a debounced callback when one
	// of them changes. Run must be called exactly once; calling it a second
	// time returns an error. Track may be called at any time, including from
	// the callback.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		include  []string
		stdout   io.Writer
		stderr   io.Writer
		debounce time.Duration
		baseDir  string
		started  atomic.Bool

		mu    sync.Mutex
		files map[string]struct{}
		dirs  map[string]struct{}
	}
)

// New creates a Watcher from the given Config and starts watching the
// directories of its initial files.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	// Validate all patterns eagerly so invalid globs fail at construction
	// time rather than silently failing to match at runtime.
	if err := validatePatterns(cfg.Include, "include"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	include := make([]string, 0, len(cfg.Include))
	for _, pat := range cfg.Include {
		include = append(include, filepath.ToSlash(filepath.Join(absBase, pat)))
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  ignores,
		include:  include,
		stdout:   stdout,
		stderr:   stderr,
		debounce: debounce,
		baseDir:  absBase,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}

	if err := w.Track(cfg.Files...); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Track replaces the set of tracked files. Directories no longer needed are
// unwatched; directories of newly tracked files and of current include
// matches are watched.
func (w *Watcher) Track(paths ...string) error {
	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs := w.abs(p)
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for _, pat := range w.include {
		base, _ := doublestar.SplitPattern(pat)
		if info, err := os.Stat(filepath.FromSlash(base)); err == nil && info.IsDir() {
			dirs[filepath.FromSlash(base)] = struct{}{}
		}
		matches, err := doublestar.FilepathGlob(filepath.FromSlash(pat), doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("watch: expand include pattern %q: %w", pat, err)
		}
		for _, m := range matches {
			dirs[filepath.Dir(m)] = struct{}{}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.dirs {
		if _, keep := dirs[dir]; keep {
			continue
		}
		// The directory may be gone already; nothing else to clean up.
		_ = w.fsw.Remove(dir)
		delete(w.dirs, dir)
	}
	for dir := range dirs {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files = files
	return nil
}

// Files returns the tracked files, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.files))
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates any fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes the OnChange callback.
	// A run that is still in progress defers the next one by another
	// debounce period instead of overlapping it.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			// ANSI escape: clear screen and move cursor to top-left.
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil {
			localTimer.Stop()
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}

			path := filepath.Clean(evt.Name)
			if !w.relevant(path) {
				continue
			}

			mu.Lock()
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// relevant reports whether an event on the absolute path should trigger a run.
func (w *Watcher) relevant(path string) bool {
	normalized := filepath.ToSlash(path)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return false
		}
	}

	w.mu.Lock()
	_, tracked := w.files[path]
	w.mu.Unlock()
	if tracked {
		return true
	}

	for _, pat := range w.include {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

func (w *Watcher) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(w.baseDir, path)
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// validatePatterns checks that every pattern in the slice is a valid doublestar
// glob. The label (e.g., "include" or "ignore") is used in error messages.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
