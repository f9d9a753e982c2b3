// Package watch keeps a workspace store in sync with GDScript files on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/fsutil"
	"github.com/yaklabco/gdparse/pkg/runner"
	"github.com/yaklabco/gdparse/pkg/workspace"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("watcher already started")

// Event reports what happened to one file after a debounced batch.
type Event struct {
	Path string

	// Update is the store outcome for a created or written file.
	Update *workspace.Update

	// Removed is set when the file disappeared and its document was dropped.
	Removed bool

	// Err is set when the file could not be read or parsed.
	Err error
}

// Handler receives events. It is called from the watcher goroutine, one
// event at a time.
type Handler func(Event)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long a file must stay quiet before it is reparsed.
	Debounce time.Duration

	// Ignore holds doublestar patterns relative to the watched root.
	Ignore []string

	// Prime opens every existing file when the watcher starts.
	Prime bool
}

type fileEventType int

const (
	fileEventWrite fileEventType = iota
	fileEventRemove
)

// Watcher feeds file changes under a root directory into a Store.
type Watcher struct {
	store   *workspace.Store
	handler Handler
	opts    Options

	fs     *fsnotify.Watcher
	root   string
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// New creates a watcher. Nothing is watched until Start.
func New(store *workspace.Store, handler Handler, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if handler == nil {
		handler = func(Event) {}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		store:   store,
		handler: handler,
		opts:    opts,
		fs:      fsWatcher,
	}, nil
}

// Start watches root and every non-ignored directory below it. The watcher
// runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	w.root = absRoot

	files, err := w.addWatches(ctx, absRoot)
	if err != nil {
		return fmt.Errorf("add watches under %s: %w", absRoot, err)
	}

	if w.opts.Prime {
		for _, path := range files {
			w.process(ctx, path, fileEventWrite)
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.started = true

	w.wg.Add(1)
	go w.loop(loopCtx)

	logging.FromContext(ctx).Debug("watcher started",
		logging.FieldPath, absRoot,
		logging.FieldFiles, len(files))

	return nil
}

// Stop ends watching and waits for the event goroutine to exit. Pending
// events are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	err := w.fs.Close()
	w.wg.Wait()

	if err != nil {
		return fmt.Errorf("close fsnotify watcher: %w", err)
	}
	return nil
}

// addWatches registers every directory below root and returns the
// GDScript files found on the way, sorted.
func (w *Watcher) addWatches(ctx context.Context, root string) ([]string, error) {
	logger := logging.FromContext(ctx)
	visited := make(map[string]bool)
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return nil //nolint:nilerr // Unreadable entries are skipped
		}

		if !entry.IsDir() {
			if w.shouldProcess(path) {
				files = append(files, path)
			}
			return nil
		}

		if path != root && w.ignoredDir(path) {
			return filepath.SkipDir
		}

		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil //nolint:nilerr // Unresolvable directories are skipped
		}
		if visited[realPath] {
			return filepath.SkipDir
		}
		visited[realPath] = true

		if err := w.fs.Add(path); err != nil {
			logger.Warn("failed to watch directory", logging.FieldPath, path, logging.FieldError, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// loop collects fsnotify events and flushes them once the debounce timer
// fires without further events.
func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	logger := logging.FromContext(ctx)
	pending := make(map[string]fileEventType)
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.collect(ctx, event, pending) {
				timer.Reset(w.opts.Debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", logging.FieldError, err)

		case <-timer.C:
			w.flush(ctx, pending)
			pending = make(map[string]fileEventType)
		}
	}
}

// collect records event in pending and reports whether anything was added.
func (w *Watcher) collect(ctx context.Context, event fsnotify.Event, pending map[string]fileEventType) bool {
	path := event.Name
	logging.FromContext(ctx).Debug("fs event", logging.FieldPath, path, logging.FieldEvent, event.Op.String())

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if w.shouldProcess(path) {
			pending[path] = fileEventRemove
			return true
		}
		return false
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	if info.IsDir() {
		if !event.Has(fsnotify.Create) || w.ignoredDir(path) {
			return false
		}
		// A directory moved into place may already hold scripts.
		files, err := w.addWatches(ctx, path)
		if err != nil {
			logging.FromContext(ctx).Warn("failed to watch new directory",
				logging.FieldPath, path, logging.FieldError, err)
			return false
		}
		for _, file := range files {
			pending[file] = fileEventWrite
		}
		return len(files) > 0
	}

	if !w.shouldProcess(path) {
		return false
	}
	pending[path] = fileEventWrite
	return true
}

// flush processes a batch in path order.
func (w *Watcher) flush(ctx context.Context, pending map[string]fileEventType) {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path, pending[path])
	}
}

// process syncs one path with the store and reports the outcome.
func (w *Watcher) process(ctx context.Context, path string, kind fileEventType) {
	if kind == fileEventRemove {
		if _, err := os.Stat(path); err == nil {
			// Renamed over or recreated before the batch flushed.
			kind = fileEventWrite
		} else {
			if w.store.Close(path) {
				w.handler(Event{Path: path, Removed: true})
			}
			return
		}
	}

	src, err := fsutil.ReadSource(ctx, path)
	if err != nil {
		w.handler(Event{Path: path, Err: err})
		return
	}

	var update *workspace.Update
	if doc, ok := w.store.Get(path); ok {
		if doc.Hash == src.Hash && doc.Text == src.Text {
			// Touched but not changed.
			return
		}
		update, err = w.store.Replace(ctx, path, src.Text)
	} else {
		update, err = w.store.Open(ctx, path, src.Text)
	}
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return
	}

	w.handler(Event{Path: path, Update: update, Err: err})
}

// shouldProcess reports whether path is a GDScript file outside ignored
// locations.
func (w *Watcher) shouldProcess(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".gd") {
		return false
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return !runner.MatchesExclude(w.relative(path), w.opts.Ignore)
}

// ignoredDir reports whether a directory is hidden or matches an ignore
// pattern.
func (w *Watcher) ignoredDir(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	return runner.MatchesExclude(w.relative(path), w.opts.Ignore)
}

func (w *Watcher) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return rel
}
