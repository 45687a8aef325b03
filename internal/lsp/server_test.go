package lsp

import (
	"strings"
	"sync"
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const testURI = protocol.DocumentUri("file:///tmp/intro.bobbin")

const goldScript = "save gold = 10\n" +
	"extern player_name\n" +
	"Hi {player_name}, you have {gold} gold.\n" +
	"set gold = gold - 1\n"

type recorder struct {
	mu        sync.Mutex
	published []protocol.PublishDiagnosticsParams
}

func (r *recorder) last(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.published) == 0 {
		t.Fatalf("nothing published")
	}
	return r.published[len(r.published)-1]
}

func newTestServer(t *testing.T, initOpts any) (*Server, *recorder) {
	t.Helper()
	s := New(Options{Version: "test"})
	rec := &recorder{}
	s.publish = func(_ *glsp.Context, p protocol.PublishDiagnosticsParams) {
		rec.mu.Lock()
		rec.published = append(rec.published, p)
		rec.mu.Unlock()
	}
	if _, err := s.initialize(&glsp.Context{}, &protocol.InitializeParams{InitializationOptions: initOpts}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s, rec
}

func open(t *testing.T, s *Server, text string, version protocol.Integer) {
	t.Helper()
	err := s.textDocumentDidOpen(&glsp.Context{}, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "bobbin", Version: version, Text: text},
	})
	if err != nil {
		t.Fatalf("didOpen: %v", err)
	}
}

func change(t *testing.T, s *Server, text string, version protocol.Integer) {
	t.Helper()
	err := s.textDocumentDidChange(&glsp.Context{}, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                version,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: text}},
	})
	if err != nil {
		t.Fatalf("didChange: %v", err)
	}
}

func pos(line, char uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Position:     protocol.Position{Line: line, Character: char},
	}
}

func TestInitializeCapabilities(t *testing.T) {
	s := New(Options{})
	res, err := s.initialize(&glsp.Context{}, &protocol.InitializeParams{})
	if err != nil {
		t.Fatal(err)
	}
	ir, ok := res.(protocol.InitializeResult)
	if !ok {
		t.Fatalf("result type %T", res)
	}
	if ir.Capabilities.HoverProvider != true || ir.Capabilities.DocumentSymbolProvider != true {
		t.Fatalf("capabilities = %+v", ir.Capabilities)
	}
	if !s.utf16() {
		t.Fatalf("UTF-16 must be the default")
	}
}

func TestPublishUndefinedVariable(t *testing.T) {
	s, rec := newTestServer(t, nil)
	open(t, s, "extern player_name\nHi {playr_name}\n", 1)

	p := rec.last(t)
	if p.URI != testURI || p.Version == nil || *p.Version != 1 {
		t.Fatalf("params = %+v", p)
	}
	if len(p.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", p.Diagnostics)
	}
	d := p.Diagnostics[0]
	if d.Source == nil || *d.Source != "bobbin" {
		t.Fatalf("source = %v", d.Source)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Fatalf("severity = %v", d.Severity)
	}
	want := protocol.Range{Start: protocol.Position{Line: 1, Character: 4}, End: protocol.Position{Line: 1, Character: 14}}
	if d.Range != want {
		t.Fatalf("range = %+v, want %+v", d.Range, want)
	}
	if !strings.Contains(d.Message, "help: did you mean 'player_name'?") {
		t.Fatalf("message = %q", d.Message)
	}

	change(t, s, "extern player_name\nHi {player_name}\n", 2)
	if p := rec.last(t); len(p.Diagnostics) != 0 {
		t.Fatalf("fixed document still has %+v", p.Diagnostics)
	}
}

func TestShadowingHasRelatedInformation(t *testing.T) {
	s, rec := newTestServer(t, nil)
	open(t, s, "save x = 1\ntemp x = 2\n", 1)
	d := rec.last(t).Diagnostics
	if len(d) != 1 || len(d[0].RelatedInformation) != 1 {
		t.Fatalf("diagnostics = %+v", d)
	}
	rel := d[0].RelatedInformation[0]
	if rel.Location.URI != testURI || rel.Location.Range.Start.Line != 0 || rel.Message != "previously declared here" {
		t.Fatalf("related = %+v", rel)
	}
}

func TestPositionEncoding(t *testing.T) {
	src := "\U0001F600 {nope}\n"
	tests := []struct {
		name string
		opts any
		want uint32
	}{
		{"utf-16 default", nil, 4},
		{"utf-8 negotiated", map[string]any{"positionEncoding": "utf-8"}, 6},
		{"unknown option", map[string]any{"positionEncoding": "utf-32"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestServer(t, tt.opts)
			open(t, s, src, 1)
			d := rec.last(t).Diagnostics
			if len(d) != 1 || d[0].Range.Start.Character != tt.want {
				t.Fatalf("diagnostics = %+v, want start %d", d, tt.want)
			}
		})
	}
}

func TestCloseClearsDiagnostics(t *testing.T) {
	s, rec := newTestServer(t, nil)
	open(t, s, "Hi {nope}\n", 1)
	err := s.textDocumentDidClose(&glsp.Context{}, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	if err != nil {
		t.Fatal(err)
	}
	p := rec.last(t)
	if p.Diagnostics == nil || len(p.Diagnostics) != 0 {
		t.Fatalf("close published %+v", p.Diagnostics)
	}
	if _, ok := s.doc(testURI); ok {
		t.Fatalf("document still open")
	}
}

func TestStaleVersionIgnored(t *testing.T) {
	s, rec := newTestServer(t, nil)
	open(t, s, "Hello.\n", 5)
	n := len(rec.published)
	change(t, s, "Hi {nope}\n", 3)
	if len(rec.published) != n {
		t.Fatalf("stale change was published")
	}
	doc, _ := s.doc(testURI)
	if doc.version != 5 {
		t.Fatalf("version = %d", doc.version)
	}
}

func TestHoverAndDefinition(t *testing.T) {
	s, _ := newTestServer(t, nil)
	open(t, s, goldScript, 1)

	hover, err := s.textDocumentHover(&glsp.Context{}, &protocol.HoverParams{TextDocumentPositionParams: pos(2, 29)})
	if err != nil || hover == nil {
		t.Fatalf("hover = %v, %v", hover, err)
	}
	content := hover.Contents.(protocol.MarkupContent)
	if !strings.Contains(content.Value, "save gold = 10") || !strings.Contains(content.Value, "Persistent") {
		t.Fatalf("hover = %q", content.Value)
	}

	def, err := s.textDocumentDefinition(&glsp.Context{}, &protocol.DefinitionParams{TextDocumentPositionParams: pos(3, 12)})
	if err != nil {
		t.Fatal(err)
	}
	locs := def.([]protocol.Location)
	want := protocol.Range{Start: protocol.Position{Line: 0, Character: 5}, End: protocol.Position{Line: 0, Character: 9}}
	if len(locs) != 1 || locs[0].Range != want {
		t.Fatalf("definition = %+v", locs)
	}

	if h, _ := s.textDocumentHover(&glsp.Context{}, &protocol.HoverParams{TextDocumentPositionParams: pos(2, 0)}); h != nil {
		t.Fatalf("hover on plain text = %+v", h)
	}
}

func TestReferences(t *testing.T) {
	s, _ := newTestServer(t, nil)
	open(t, s, goldScript, 1)
	params := &protocol.ReferenceParams{TextDocumentPositionParams: pos(0, 6)}
	params.Context.IncludeDeclaration = true
	locs, err := s.textDocumentReferences(&glsp.Context{}, params)
	if err != nil {
		t.Fatal(err)
	}
	// declaration, {gold}, set gold, gold - 1
	if len(locs) != 4 {
		t.Fatalf("references = %+v", locs)
	}
}

func TestDocumentSymbols(t *testing.T) {
	s, _ := newTestServer(t, nil)
	open(t, s, goldScript, 1)
	res, err := s.textDocumentDocumentSymbol(&glsp.Context{}, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	if err != nil {
		t.Fatal(err)
	}
	syms := res.([]protocol.DocumentSymbol)
	if len(syms) != 2 || syms[0].Name != "gold" || syms[1].Name != "player_name" {
		t.Fatalf("symbols = %+v", syms)
	}
	if syms[1].Kind != protocol.SymbolKindConstant || *syms[0].Detail != "save" {
		t.Fatalf("symbols = %+v", syms)
	}
}

func TestCompletionInsideBraces(t *testing.T) {
	s, _ := newTestServer(t, nil)
	open(t, s, "temp price = 7\nsave prestige = 1\nHi {pr}\n", 1)
	res, err := s.textDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{TextDocumentPositionParams: pos(2, 6)})
	if err != nil {
		t.Fatal(err)
	}
	items := res.([]protocol.CompletionItem)
	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	if strings.Join(labels, ",") != "price,prestige" {
		t.Fatalf("labels = %v", labels)
	}
}

func TestCompletionContext(t *testing.T) {
	tests := []struct {
		src      string
		wantPre  string
		wantBrac bool
	}{
		{"Hi {pl", "pl", true},
		{"Hi {a} and {", "", true},
		{"Hi {a} tex", "tex", false},
		{"if go", "go", false},
		{"Hi \\{pl", "pl", false},
		{"line {\nse", "se", false},
	}
	for _, tt := range tests {
		pre, brac := completionContext(tt.src, uint32(len(tt.src)))
		if pre != tt.wantPre || brac != tt.wantBrac {
			t.Errorf("completionContext(%q) = %q, %v; want %q, %v", tt.src, pre, brac, tt.wantPre, tt.wantBrac)
		}
	}
}

func TestURIToPath(t *testing.T) {
	if got := uriToPath("file:///home/ana/My%20Game/intro.bobbin"); got != "/home/ana/My Game/intro.bobbin" {
		t.Fatalf("uriToPath = %q", got)
	}
	if got := uriToPath("untitled:Untitled-1"); got != "untitled:Untitled-1" {
		t.Fatalf("uriToPath = %q", got)
	}
}
