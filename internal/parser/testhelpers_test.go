package parser

import (
	"fmt"
	"strings"
	"testing"

	"bobbin/internal/ast"
)

func errorsSummary(errs []*ParseError) string {
	if len(errs) == 0 {
		return "<none>"
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
	return strings.Join(lines, "; ")
}

func mustParse(t *testing.T, src string) *ast.Script {
	t.Helper()
	script, errs := ParseSource(src)
	if errs != nil {
		t.Fatalf("unexpected parse errors: %s", errorsSummary(errs))
	}
	return script
}

func errorKinds(errs []*ParseError) []ErrorKind {
	out := make([]ErrorKind, len(errs))
	for i, e := range errs {
		out[i] = e.Kind
	}
	return out
}

// render prints expressions in fully parenthesized form.
func render(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		switch e.Kind {
		case ast.LitNumber:
			return fmt.Sprint(e.Num)
		case ast.LitString:
			return fmt.Sprintf("%q", e.Str)
		default:
			return fmt.Sprint(e.Bool)
		}
	case *ast.VarExpr:
		return e.Name
	case *ast.UnaryExpr:
		return "(" + e.Op.String() + " " + render(e.X) + ")"
	case *ast.BinaryExpr:
		return "(" + render(e.X) + " " + e.Op.String() + " " + render(e.Y) + ")"
	}
	return "?"
}
