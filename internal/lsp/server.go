// Package lsp serves GDScript documents over the Language Server Protocol,
// reparsing them incrementally as the client edits.
package lsp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	// Registers the commonlog backend used by glsp.
	_ "github.com/tliron/commonlog/simple"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
	"github.com/yaklabco/gdparse/pkg/gdparser"
	"github.com/yaklabco/gdparse/pkg/workspace"
)

const lsName = "gdparse"

// Server is a language server backed by a workspace store. Documents are
// keyed by their URI.
type Server struct {
	store   *workspace.Store
	handler protocol.Handler
	server  *server.Server
	version string
	ctx     context.Context

	// mu keeps each notification's read of the cached text and its edit
	// together.
	mu sync.Mutex
}

// New creates a server. ctx carries the logger used for store operations.
func New(ctx context.Context, store *workspace.Store, version string, debug bool) *Server {
	srv := &Server{
		store:   store,
		version: version,
		ctx:     ctx,
	}

	srv.handler = protocol.Handler{
		Initialize:                 srv.initialize,
		Initialized:                srv.initialized,
		Shutdown:                   srv.shutdown,
		SetTrace:                   srv.setTrace,
		TextDocumentDidOpen:        srv.didOpen,
		TextDocumentDidChange:      srv.didChange,
		TextDocumentDidClose:       srv.didClose,
		TextDocumentDocumentSymbol: srv.documentSymbol,
	}

	srv.server = server.NewServer(&srv.handler, lsName, debug)

	return srv
}

// RunStdio serves the protocol on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	if err := s.server.RunStdio(); err != nil {
		return fmt.Errorf("serve stdio: %w", err)
	}
	return nil
}

func (s *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindIncremental
	openClose := true
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &syncKind,
	}
	capabilities.DocumentSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	logging.FromContext(s.ctx).Debug("client initialized")
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.store.Shutdown()
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uri := params.TextDocument.URI
	update, err := s.store.Open(s.ctx, uri, params.TextDocument.Text)
	if update == nil && err != nil {
		return err
	}
	s.publishDiagnostics(ctx, uri, err)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uri := params.TextDocument.URI
	var parseErr error
	for _, raw := range params.ContentChanges {
		update, err := s.applyContentChange(uri, raw)
		if update == nil && err != nil {
			return err
		}
		parseErr = err
	}
	s.publishDiagnostics(ctx, uri, parseErr)
	return nil
}

// applyContentChange applies one LSP content change. A ranged change is
// converted to a byte edit; a change without a range replaces the text.
func (s *Server) applyContentChange(uri string, raw any) (*workspace.Update, error) {
	switch change := raw.(type) {
	case protocol.TextDocumentContentChangeEvent:
		if change.Range == nil {
			return s.store.Replace(s.ctx, uri, change.Text)
		}
		return s.applyRange(uri, *change.Range, change.Text)
	case *protocol.TextDocumentContentChangeEvent:
		if change.Range == nil {
			return s.store.Replace(s.ctx, uri, change.Text)
		}
		return s.applyRange(uri, *change.Range, change.Text)
	case protocol.TextDocumentContentChangeEventWhole:
		return s.store.Replace(s.ctx, uri, change.Text)
	case *protocol.TextDocumentContentChangeEventWhole:
		return s.store.Replace(s.ctx, uri, change.Text)
	default:
		return nil, fmt.Errorf("unsupported content change %T", raw)
	}
}

func (s *Server) applyRange(uri string, rng protocol.Range, text string) (*workspace.Update, error) {
	doc, ok := s.store.Get(uri)
	if !ok {
		return nil, fmt.Errorf("%w: %s", workspace.ErrNotOpen, uri)
	}

	changes := []edit.TextChange{toTextChange(doc.Text, gdast.BuildLines(doc.Text), rng, text)}
	newText, err := edit.ApplyChanges(doc.Text, changes)
	if err != nil {
		return nil, fmt.Errorf("apply change to %s: %w", uri, err)
	}
	return s.store.Apply(s.ctx, uri, newText, changes)
}

func (s *Server) didClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) documentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc, ok := s.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return documentSymbols(doc.Text, doc.Tree), nil
}

// publishDiagnostics reports parseErr for uri, or clears earlier reports
// when it is nil.
func (s *Server) publishDiagnostics(ctx *glsp.Context, uri string, parseErr error) {
	if ctx == nil || ctx.Notify == nil {
		return
	}

	diagnostics := make([]protocol.Diagnostic, 0, 1)
	if parseErr != nil {
		diagnostics = append(diagnostics, s.diagnostic(uri, parseErr))
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (s *Server) diagnostic(uri string, parseErr error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	diag := protocol.Diagnostic{
		Severity: &severity,
		Source:   &source,
		Message:  parseErr.Error(),
	}

	var syntaxErr *gdparser.ParseError
	if !errors.As(parseErr, &syntaxErr) {
		return diag
	}

	diag.Message = syntaxErr.Err.Error()
	if doc, ok := s.store.Get(uri); ok {
		pos := position(doc.Text, gdast.BuildLines(doc.Text), syntaxErr.Offset)
		diag.Range = protocol.Range{Start: pos, End: pos}
	}
	return diag
}
