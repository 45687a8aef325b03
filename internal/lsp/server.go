// Package lsp is the Bobbin language server: full document sync, diagnostics
// on every change, and declaration-aware hover, definition, references,
// document symbols and completion for script variables.
package lsp

import (
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"bobbin/internal/diag"

	_ "github.com/tliron/commonlog/simple"
)

const (
	lspName = "bobbin-lsp"
	// diagSource is put on every published diagnostic.
	diagSource = "bobbin"
)

// Options configures a Server.
type Options struct {
	Version        string
	MaxDiagnostics int
	// Matcher drives "did you mean?" suggestions; nil uses the default.
	Matcher diag.Matcher
}

// Server holds the open documents of one editor session.
type Server struct {
	opts Options
	log  commonlog.Logger

	mu      sync.Mutex
	docs    map[protocol.DocumentUri]*document
	useUTF8 bool

	handler protocol.Handler
	server  *glspserver.Server

	// publish sends diagnostics to the client; tests replace it.
	publish func(ctx *glsp.Context, params protocol.PublishDiagnosticsParams)
}

// New creates a server. Call RunStdio to serve.
func New(opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{
		opts: opts,
		log:  commonlog.GetLogger("bobbin.lsp"),
		docs: make(map[protocol.DocumentUri]*document),
		publish: func(ctx *glsp.Context, params protocol.PublishDiagnosticsParams) {
			go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
		},
	}
	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDefinition:     s.textDocumentDefinition,
		TextDocumentReferences:     s.textDocumentReferences,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentCompletion:     s.textDocumentCompletion,
	}
	s.server = glspserver.NewServer(&s.handler, lspName, false)
	return s
}

// RunStdio serves on stdin/stdout until the client disconnects.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

// ConfigureLogging sends server logs to path ("" keeps stderr) at the given
// verbosity; stdout belongs to the protocol.
func ConfigureLogging(verbosity int, path string) {
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}

// --- LSP lifecycle handlers ---

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	utf8 := wantsUTF8(params.InitializationOptions)
	s.mu.Lock()
	s.useUTF8 = utf8
	s.mu.Unlock()
	encoding := "utf-16"
	if utf8 {
		encoding = "utf-8"
	}
	s.log.Infof("initializing, position encoding %s", encoding)

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"{"},
	}
	capabilities.HoverProvider = true
	capabilities.DefinitionProvider = true
	capabilities.ReferencesProvider = true
	capabilities.DocumentSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.opts.Version,
		},
	}, nil
}

// wantsUTF8 reads {"positionEncoding": "utf-8"} from the client's
// initializationOptions; protocol 3.16 has no standard field for it.
func wantsUTF8(opts any) bool {
	m, ok := opts.(map[string]any)
	if !ok {
		return false
	}
	enc, _ := m["positionEncoding"].(string)
	return strings.EqualFold(enc, "utf-8") || strings.EqualFold(enc, "utf8")
}

func (s *Server) initialized(*glsp.Context, *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(*glsp.Context) error {
	s.mu.Lock()
	n := len(s.docs)
	s.docs = make(map[protocol.DocumentUri]*document)
	s.mu.Unlock()
	s.log.Infof("shutdown, %d documents dropped", n)
	return nil
}

func (s *Server) setTrace(*glsp.Context, *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) == 0 {
		return nil
	}
	switch last := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		s.update(ctx, params.TextDocument.URI, last.Text, params.TextDocument.Version)
	case protocol.TextDocumentContentChangeEvent:
		// инкрементальные правки не заказывали
		s.log.Warningf("ignoring incremental change for %s", params.TextDocument.URI)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	s.publish(ctx, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string, version protocol.Integer) {
	s.mu.Lock()
	utf8 := s.useUTF8
	s.mu.Unlock()

	doc := analyze(uri, text, version, s.opts)
	s.mu.Lock()
	// старая версия не должна перетереть новую
	if prev, ok := s.docs[uri]; ok && prev.version > version {
		s.mu.Unlock()
		return
	}
	s.docs[uri] = doc
	s.mu.Unlock()

	s.log.Debugf("%s v%d: %d diagnostics", uri, version, len(doc.diagnostics))
	v := protocol.UInteger(max(version, 0))
	s.publish(ctx, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &v,
		Diagnostics: doc.protocolDiagnostics(!utf8),
	})
}

func (s *Server) doc(uri protocol.DocumentUri) (*document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[uri]
	return d, ok
}

func (s *Server) utf16() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.useUTF8
}

func boolPtr(b bool) *bool {
	return &b
}
