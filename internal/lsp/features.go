package lsp

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var keywords = []string{"temp", "save", "extern", "set", "if", "elif", "else", "and", "or", "not", "true", "false"}

// --- Language features ---

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, ok := s.doc(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	utf16 := s.utf16()
	off := doc.offset(params.Position, utf16)
	name, span, ok := doc.nameAt(off)
	if !ok {
		return nil, nil
	}
	dc, ok := doc.declFor(name, off)
	if !ok {
		return nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "```bobbin\n%s\n```\n\n", doc.file.Text(dc.stmt))
	switch dc.kind {
	case declSave:
		b.WriteString("Persistent variable; the default applies only when the save has no value yet.")
	case declExtern:
		b.WriteString("Provided by the host game; read-only in scripts.")
	default:
		b.WriteString("Temporary variable, dropped when its block ends.")
	}
	rng := doc.toRange(span, utf16)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &rng,
	}, nil
}

func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc, ok := s.doc(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	utf16 := s.utf16()
	off := doc.offset(params.Position, utf16)
	name, _, ok := doc.nameAt(off)
	if !ok {
		return nil, nil
	}
	dc, ok := doc.declFor(name, off)
	if !ok {
		return nil, nil
	}
	return []protocol.Location{{URI: doc.uri, Range: doc.toRange(dc.span, utf16)}}, nil
}

// textDocumentReferences lists uses that resolve to the same declaration
// as the name under the cursor.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	doc, ok := s.doc(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	utf16 := s.utf16()
	off := doc.offset(params.Position, utf16)
	name, _, ok := doc.nameAt(off)
	if !ok {
		return nil, nil
	}
	target, ok := doc.declFor(name, off)
	if !ok {
		return nil, nil
	}

	var locs []protocol.Location
	if params.Context.IncludeDeclaration {
		locs = append(locs, protocol.Location{URI: doc.uri, Range: doc.toRange(target.span, utf16)})
	}
	for _, r := range doc.refs {
		if r.name != name {
			continue
		}
		if dc, ok := doc.declFor(name, r.span.Start); ok && dc.span == target.span {
			locs = append(locs, protocol.Location{URI: doc.uri, Range: doc.toRange(r.span, utf16)})
		}
	}
	return locs, nil
}

func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc, ok := s.doc(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	utf16 := s.utf16()
	symbols := make([]protocol.DocumentSymbol, 0, len(doc.decls))
	for _, dc := range doc.decls {
		detail := dc.kind.String()
		kind := protocol.SymbolKindVariable
		if dc.kind == declExtern {
			kind = protocol.SymbolKindConstant
		}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           dc.name,
			Detail:         &detail,
			Kind:           kind,
			Range:          doc.toRange(dc.stmt, utf16),
			SelectionRange: doc.toRange(dc.span, utf16),
		})
	}
	return symbols, nil
}

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc, ok := s.doc(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	off := doc.offset(params.Position, s.utf16())
	prefix, inBraces := completionContext(doc.file.Content, off)

	var items []protocol.CompletionItem
	seen := make(map[string]bool)
	for _, dc := range doc.decls {
		if seen[dc.name] || !strings.HasPrefix(dc.name, prefix) {
			continue
		}
		// temp виден только после объявления
		if dc.kind == declTemp && dc.span.Start > off {
			continue
		}
		seen[dc.name] = true
		kind := protocol.CompletionItemKindVariable
		detail := dc.kind.String()
		items = append(items, protocol.CompletionItem{Label: dc.name, Kind: &kind, Detail: &detail})
	}
	if !inBraces {
		for _, kw := range keywords {
			if strings.HasPrefix(kw, prefix) {
				kind := protocol.CompletionItemKindKeyword
				items = append(items, protocol.CompletionItem{Label: kw, Kind: &kind})
			}
		}
	}
	return items, nil
}

// completionContext returns the identifier fragment before off and whether
// it sits inside an unclosed `{` on the same line.
func completionContext(content string, off uint32) (string, bool) {
	off = min(off, uint32(len(content))) // #nosec G115 -- clamped to the content
	start := off
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(content[:start])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			break
		}
		start -= uint32(size) // #nosec G115 -- size <= 4
	}
	prefix := content[start:off]

	lineStart := strings.LastIndexByte(content[:start], '\n') + 1
	before := content[lineStart:start]
	open := strings.LastIndexByte(before, '{')
	inBraces := open >= 0 && strings.LastIndexByte(before, '}') < open && !escaped(before, open)
	return prefix, inBraces
}

func escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// uriToPath turns a file:// URI into a path for display; other URIs pass
// through unchanged.
func uriToPath(uri protocol.DocumentUri) string {
	u, err := url.Parse(string(uri))
	if err != nil || u.Scheme != "file" {
		return string(uri)
	}
	return u.Path
}
