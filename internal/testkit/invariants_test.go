package testkit

import (
	"strings"
	"testing"

	"bobbin/internal/ast"
	"bobbin/internal/lexer"
	"bobbin/internal/parser"
	"bobbin/internal/source"
	"bobbin/internal/symbols"
	"bobbin/internal/token"
)

const script = `save gold = 10
extern name
Hi {name}.
- Buy
    temp price = 7
    set gold = gold - price
- Leave
if gold > 5 and name == "Ana"
    Rich {gold}.
`

func TestInvariantsHoldForParsedScript(t *testing.T) {
	file := source.NewVirtual("s.bobbin", script)
	var toks []token.Token
	for tok := range lexer.Scan(script) {
		toks = append(toks, tok)
	}
	if err := CheckTokenInvariants(toks, script); err != nil {
		t.Fatal(err)
	}
	parsed, perrs := parser.ParseSource(script)
	if perrs != nil {
		t.Fatalf("parse: %v", perrs)
	}
	if err := CheckSpanInvariants(parsed, file); err != nil {
		t.Fatal(err)
	}
	table, serr := symbols.Analyze(parsed)
	if serr != nil {
		t.Fatalf("analyze: %v", serr)
	}
	if err := CheckResolved(parsed, table); err != nil {
		t.Fatal(err)
	}
}

func TestTokenInvariantsHoldForScannerErrors(t *testing.T) {
	for _, src := range []string{"Hi {unterminated\n", "Hi {name\nNext\n", "a } b\n{x\n"} {
		var toks []token.Token
		for tok := range lexer.Scan(src) {
			toks = append(toks, tok)
		}
		if err := CheckTokenInvariants(toks, src); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
}

func TestCheckResolvedReportsMissingBinding(t *testing.T) {
	parsed, _ := parser.ParseSource("temp x = 1\n{x}\n")
	err := CheckResolved(parsed, symbols.NewSymbolTable())
	if err == nil || !strings.Contains(err.Error(), "*ast.TempDecl") {
		t.Fatalf("CheckResolved = %v", err)
	}
}

func TestCheckSpanInvariantsRejectsDuplicateIDs(t *testing.T) {
	s := &ast.Script{
		Statements: []ast.Stmt{
			&ast.ExternDecl{ID: 1, Name: "a"},
			&ast.ExternDecl{ID: 1, Name: "b"},
		},
		NodeCount: 2,
	}
	err := CheckSpanInvariants(s, source.NewVirtual("x", "extern a\nextern b\n"))
	if err == nil || !strings.Contains(err.Error(), "assigned twice") {
		t.Fatalf("CheckSpanInvariants = %v", err)
	}
}

func TestCheckTokenInvariantsRejectsMissingEOF(t *testing.T) {
	toks := []token.Token{{Kind: token.Newline, Span: source.Span{Start: 0, End: 1}}}
	if err := CheckTokenInvariants(toks, "\n"); err == nil {
		t.Fatalf("expected an error")
	}
}
