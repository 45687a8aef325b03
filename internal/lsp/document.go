package lsp

import (
	"context"
	"sort"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"bobbin/internal/ast"
	"bobbin/internal/diag"
	"bobbin/internal/driver"
	"bobbin/internal/parser"
	"bobbin/internal/source"
)

type declKind uint8

const (
	declTemp declKind = iota
	declSave
	declExtern
)

func (k declKind) String() string {
	switch k {
	case declTemp:
		return "temp"
	case declSave:
		return "save"
	default:
		return "extern"
	}
}

// decl is one variable declaration found in the document.
type decl struct {
	kind declKind
	name string
	span source.Span
	// stmt spans the whole declaring line, for document symbols
	stmt source.Span
}

// ref is one use of a variable name: `{name}`, an expression operand or
// the target of `set`.
type ref struct {
	name string
	span source.Span
}

// document is an analyzed snapshot of one open file. It is immutable once
// built, so handlers read it without holding the server lock.
type document struct {
	uri         protocol.DocumentUri
	version     protocol.Integer
	file        *source.File
	diagnostics []diag.Diagnostic
	decls       []decl // in source order
	refs        []ref  // in source order
}

func analyze(uri protocol.DocumentUri, text string, version protocol.Integer, opts Options) *document {
	file := source.NewVirtual(uriToPath(uri), text)
	res := driver.Check(context.Background(), file, driver.Options{
		MaxDiagnostics: opts.MaxDiagnostics,
		Matcher:        opts.Matcher,
	})
	doc := &document{uri: uri, version: version, file: file, diagnostics: res.Diagnostics}

	// индекс строим и по скрипту с ошибками: парсер возвращает что успел
	script, _ := parser.ParseSource(text)
	if script != nil {
		doc.index(script)
	}
	return doc
}

func (d *document) index(script *ast.Script) {
	ast.Inspect(script.Statements, func(s ast.Stmt) bool {
		switch s := s.(type) {
		case *ast.TempDecl:
			d.decls = append(d.decls, decl{kind: declTemp, name: s.Name, span: s.Span, stmt: d.lineSpan(s.Span)})
			d.exprRefs(s.Value)
		case *ast.SaveDecl:
			d.decls = append(d.decls, decl{kind: declSave, name: s.Name, span: s.Span, stmt: d.lineSpan(s.Span)})
			d.exprRefs(s.Value)
		case *ast.ExternDecl:
			d.decls = append(d.decls, decl{kind: declExtern, name: s.Name, span: s.Span, stmt: d.lineSpan(s.Span)})
		case *ast.Assignment:
			d.refs = append(d.refs, ref{name: s.Name, span: s.Span})
			d.exprRefs(s.Value)
		case *ast.If:
			for _, b := range s.Branches {
				d.exprRefs(b.Cond)
			}
		case *ast.Line:
			d.partRefs(s.Parts)
		case *ast.ChoiceSet:
			for _, c := range s.Choices {
				d.partRefs(c.Parts)
			}
		}
		return true
	})
	sort.SliceStable(d.refs, func(i, j int) bool { return d.refs[i].span.Start < d.refs[j].span.Start })
}

func (d *document) exprRefs(e ast.Expr) {
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch e := e.(type) {
		case *ast.VarExpr:
			d.refs = append(d.refs, ref{name: e.Name, span: e.Span})
		case *ast.UnaryExpr:
			walk(e.X)
		case *ast.BinaryExpr:
			walk(e.X)
			walk(e.Y)
		}
	}
	walk(e)
}

func (d *document) partRefs(parts []ast.TextPart) {
	for _, p := range parts {
		if v, ok := p.(*ast.VarRef); ok {
			d.refs = append(d.refs, ref{name: v.Name, span: v.Span})
		}
	}
}

// lineSpan widens sp to its whole line, without the terminator.
func (d *document) lineSpan(sp source.Span) source.Span {
	li := d.file.Lines()
	line := li.LineCol(sp.Start).Line
	start := li.LineStart(line)
	text := li.LineText(line)
	return source.Span{Start: start, End: start + uint32(len(text))} // #nosec G115 -- bounded by the file size
}

// nameAt returns the declared or referenced name under off.
func (d *document) nameAt(off uint32) (string, source.Span, bool) {
	for _, dc := range d.decls {
		if contains(dc.span, off) {
			return dc.name, dc.span, true
		}
	}
	for _, r := range d.refs {
		if contains(r.span, off) {
			return r.name, r.span, true
		}
	}
	return "", source.Span{}, false
}

// declFor picks the declaration a use at off most likely binds to: the last
// declaration of name before off, else the first one after it. Shadowing is
// an error, so same-named temps can only live in sibling blocks.
func (d *document) declFor(name string, off uint32) (decl, bool) {
	var (
		best  decl
		found bool
	)
	for _, dc := range d.decls {
		if dc.name != name {
			continue
		}
		if dc.span.Start <= off || !found {
			best, found = dc, true
		}
		if dc.span.Start > off {
			break
		}
	}
	return best, found
}

// contains treats the end offset as inside, so a cursor right after a name
// still finds it.
func contains(sp source.Span, off uint32) bool {
	return sp.Start <= off && off <= sp.End
}

func (d *document) toRange(sp source.Span, utf16 bool) protocol.Range {
	li := d.file.Lines()
	start := li.ToLSPPosition(sp.Start, utf16)
	end := li.ToLSPPosition(sp.End, utf16)
	return protocol.Range{
		Start: protocol.Position{Line: start.Line, Character: start.Column},
		End:   protocol.Position{Line: end.Line, Character: end.Column},
	}
}

func (d *document) offset(pos protocol.Position, utf16 bool) uint32 {
	return d.file.Lines().FromLSPPosition(source.Position{Line: pos.Line, Column: pos.Character}, utf16)
}
