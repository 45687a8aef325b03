// Package testkit holds structural checks shared by fuzz harnesses and
// package tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"bobbin/internal/ast"
	"bobbin/internal/source"
	"bobbin/internal/symbols"
	"bobbin/internal/token"
)

// CheckTokenInvariants runs a minimal set of token invariants:
// 1) the stream ends with exactly one EOF
// 2) every span lies within the content
// 3) spans of real tokens never go backwards
func CheckTokenInvariants(tokens []token.Token, content string) error {
	size, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("content too large: %w", err)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		return fmt.Errorf("token stream does not end with EOF")
	}
	var last uint32
	for i, tok := range tokens {
		if tok.Kind == token.EOF && i != len(tokens)-1 {
			return fmt.Errorf("EOF at index %d before the end", i)
		}
		if tok.Span.Start > tok.Span.End || tok.Span.End > size {
			return fmt.Errorf("token %d (%s) span %s out of bounds 0..%d", i, tok.Kind, tok.Span, size)
		}
		// Indent/Dedent/Newline/EOF синтетические и могут быть пустыми
		if tok.Span.Empty() {
			continue
		}
		if tok.Span.Start < last {
			return fmt.Errorf("token %d (%s) at %s starts before previous end %d", i, tok.Kind, tok.Span, last)
		}
		last = tok.Span.End
	}
	return nil
}

// CheckSpanInvariants checks a parsed script against its source:
// every statement span lies within the content and every NodeID is unique
// and below Script.NodeCount.
func CheckSpanInvariants(script *ast.Script, sf *source.File) error {
	if script == nil || sf == nil {
		return fmt.Errorf("nil script or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content too large: %w", err)
	}
	seen := make(map[ast.NodeID]bool)
	var problem error
	claim := func(id ast.NodeID, what string) {
		if problem != nil {
			return
		}
		switch {
		case id == ast.NoNodeID:
			problem = fmt.Errorf("%s has no node id", what)
		case uint32(id) > script.NodeCount:
			problem = fmt.Errorf("%s id %d exceeds NodeCount %d", what, id, script.NodeCount)
		case seen[id]:
			problem = fmt.Errorf("%s id %d assigned twice", what, id)
		}
		seen[id] = true
	}
	ast.Inspect(script.Statements, func(s ast.Stmt) bool {
		if problem != nil {
			return false
		}
		if sp := s.Pos(); sp.Start > sp.End || sp.End > size {
			problem = fmt.Errorf("%T span %s out of bounds 0..%d", s, sp, size)
			return false
		}
		for _, id := range declIDs(s) {
			claim(id, fmt.Sprintf("%T", s))
		}
		for _, e := range exprsOf(s) {
			for _, id := range ast.Refs(e) {
				claim(id, "variable reference")
			}
		}
		for _, p := range partsOf(s) {
			if ref, ok := p.(*ast.VarRef); ok {
				claim(ref.ID, "interpolation")
			}
		}
		return true
	})
	return problem
}

// CheckResolved verifies that every variable reference and every temp,
// save and assignment node in script has a binding in table.
func CheckResolved(script *ast.Script, table *symbols.SymbolTable) error {
	var problem error
	need := func(id ast.NodeID, what string) {
		if problem != nil {
			return
		}
		if _, ok := table.Lookup(id); !ok {
			problem = fmt.Errorf("%s (node %d) is not bound", what, id)
		}
	}
	ast.Inspect(script.Statements, func(s ast.Stmt) bool {
		if _, isExtern := s.(*ast.ExternDecl); !isExtern {
			for _, id := range declIDs(s) {
				need(id, fmt.Sprintf("%T", s))
			}
		}
		for _, e := range exprsOf(s) {
			for _, id := range ast.Refs(e) {
				need(id, "variable reference")
			}
		}
		for _, p := range partsOf(s) {
			if ref, ok := p.(*ast.VarRef); ok {
				need(ref.ID, "interpolation {"+ref.Name+"}")
			}
		}
		return problem == nil
	})
	return problem
}

func declIDs(s ast.Stmt) []ast.NodeID {
	switch s := s.(type) {
	case *ast.TempDecl:
		return []ast.NodeID{s.ID}
	case *ast.SaveDecl:
		return []ast.NodeID{s.ID}
	case *ast.ExternDecl:
		return []ast.NodeID{s.ID}
	case *ast.Assignment:
		return []ast.NodeID{s.ID}
	}
	return nil
}

func exprsOf(s ast.Stmt) []ast.Expr {
	switch s := s.(type) {
	case *ast.TempDecl:
		return []ast.Expr{s.Value}
	case *ast.SaveDecl:
		return []ast.Expr{s.Value}
	case *ast.Assignment:
		return []ast.Expr{s.Value}
	case *ast.If:
		out := make([]ast.Expr, 0, len(s.Branches))
		for _, b := range s.Branches {
			out = append(out, b.Cond)
		}
		return out
	}
	return nil
}

func partsOf(s ast.Stmt) []ast.TextPart {
	switch s := s.(type) {
	case *ast.Line:
		return s.Parts
	case *ast.ChoiceSet:
		var out []ast.TextPart
		for _, c := range s.Choices {
			out = append(out, c.Parts...)
		}
		return out
	}
	return nil
}
