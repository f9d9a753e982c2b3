// Package workspace caches parsed GDScript documents and keeps their trees
// current as edits arrive, reparsing incrementally where possible.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
	"github.com/yaklabco/gdparse/pkg/incremental"
)

// Sentinel errors.
var (
	ErrNotOpen      = errors.New("document not open")
	ErrStaleChanges = errors.New("changes do not produce the new text")
	ErrClosed       = errors.New("store closed")
)

// Document is a snapshot of one cached file. Tree is nil when the latest
// text failed to parse.
type Document struct {
	Path    string
	Text    string
	Tree    *gdast.Tree
	Version int

	// Hash is the xxhash of Text.
	Hash uint64
}

// Update describes one store mutation.
type Update struct {
	Path    string
	Version int

	// Changes are the edits that were applied, in old-text coordinates.
	Changes []edit.TextChange

	// Result is the engine outcome. It is nil when parsing failed.
	Result *incremental.Result

	// Previous is the tree the changes were applied to. It is nil on first
	// open and after a failed parse.
	Previous *gdast.Tree
}

// Options configures a Store.
type Options struct {
	// Granularity is used by Replace to derive edits from old and new text.
	// Empty means line.
	Granularity edit.Granularity
}

// Store holds one Document per path. All mutations of a path run under the
// store lock, so the "read old tree, reparse, store new tree" sequence is
// never interleaved with another edit.
type Store struct {
	engine      *incremental.Parser
	granularity edit.Granularity

	mu     sync.Mutex
	docs   map[string]*Document
	closed bool
}

// NewStore creates a store backed by engine.
func NewStore(engine *incremental.Parser, opts Options) *Store {
	granularity := opts.Granularity
	if granularity == "" {
		granularity = edit.GranularityLine
	}
	return &Store{
		engine:      engine,
		granularity: granularity,
		docs:        make(map[string]*Document),
	}
}

// Open parses text from scratch and caches it under path, replacing any
// document already there.
func (s *Store) Open(ctx context.Context, path, text string) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	version := 1
	if existing, ok := s.docs[path]; ok {
		version = existing.Version + 1
	}

	result, err := s.engine.ParseIncremental(ctx, nil, text, nil)
	return s.store(ctx, path, text, version, nil, result, err)
}

// Apply records newText for path, reparsing with changes expressed against
// the cached text.
func (s *Store) Apply(ctx context.Context, path, newText string, changes []edit.TextChange) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.lookup(path)
	if err != nil {
		return nil, err
	}

	applied, err := edit.ApplyChanges(doc.Text, changes)
	if err != nil {
		return nil, fmt.Errorf("apply to %s: %w", path, err)
	}
	if applied != newText {
		return nil, fmt.Errorf("%w: %s", ErrStaleChanges, path)
	}

	return s.reparse(ctx, doc, newText, changes)
}

// ApplyChanges applies changes to the cached text of path and reparses.
func (s *Store) ApplyChanges(ctx context.Context, path string, changes []edit.TextChange) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.lookup(path)
	if err != nil {
		return nil, err
	}

	newText, err := edit.ApplyChanges(doc.Text, changes)
	if err != nil {
		return nil, fmt.Errorf("apply to %s: %w", path, err)
	}

	return s.reparse(ctx, doc, newText, changes)
}

// Replace records newText for path, deriving the edits by diffing against
// the cached text.
func (s *Store) Replace(ctx context.Context, path, newText string) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.lookup(path)
	if err != nil {
		return nil, err
	}

	var changes []edit.TextChange
	if xxhash.Sum64String(newText) != doc.Hash || newText != doc.Text {
		changes = edit.ComputeChangesWith(doc.Text, newText, s.granularity)
	}

	logging.FromContext(ctx).Debug("computed changes",
		logging.FieldPath, path,
		logging.FieldEdits, len(changes),
		logging.FieldGranularity, string(s.granularity))

	return s.reparse(ctx, doc, newText, changes)
}

// Get returns a snapshot of the document at path.
func (s *Store) Get(path string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// Close drops the document at path. It reports whether one was cached.
func (s *Store) Close(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.docs[path]
	delete(s.docs, path)
	return ok
}

// Shutdown drops every document; later mutations fail with ErrClosed.
func (s *Store) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[string]*Document)
	s.closed = true
}

// Paths returns the cached paths in sorted order.
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.docs))
	for path := range s.docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (s *Store) lookup(path string) (*Document, error) {
	if s.closed {
		return nil, ErrClosed
	}
	doc, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotOpen, path)
	}
	return doc, nil
}

// reparse must be called with s.mu held.
func (s *Store) reparse(ctx context.Context, doc *Document, newText string, changes []edit.TextChange) (*Update, error) {
	ctx = logging.WithFields(ctx, logging.FieldPath, doc.Path, logging.FieldDocVersion, doc.Version+1)
	result, err := s.engine.ParseIncremental(ctx, doc.Tree, newText, changes)
	update, err := s.store(ctx, doc.Path, newText, doc.Version+1, changes, result, err)
	if update != nil {
		update.Previous = doc.Tree
	}
	return update, err
}

// store records the outcome. A parse error still records the text, with a
// nil tree, so later edits line up with what the client holds. Cancellation
// leaves the document untouched.
func (s *Store) store(
	ctx context.Context,
	path, text string,
	version int,
	changes []edit.TextChange,
	result *incremental.Result,
	err error,
) (*Update, error) {
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil, err
	}

	doc := &Document{
		Path:    path,
		Text:    text,
		Version: version,
		Hash:    xxhash.Sum64String(text),
	}
	if err == nil {
		doc.Tree = result.Tree
	}
	s.docs[path] = doc

	if err != nil {
		logging.FromContext(ctx).Debug("document failed to parse", logging.FieldError, err)
		return &Update{Path: path, Version: version, Changes: changes}, fmt.Errorf("parse %s: %w", path, err)
	}

	logging.FromContext(ctx).Debug("document updated",
		logging.FieldResult, result.Kind.String(),
		logging.FieldReason, string(result.Reason))

	return &Update{Path: path, Version: version, Changes: changes, Result: result}, nil
}
