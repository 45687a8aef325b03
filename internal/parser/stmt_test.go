package parser

import (
	"strings"
	"testing"

	"bobbin/internal/ast"
)

func TestParseStatementKinds(t *testing.T) {
	script := mustParse(t, `extern player_name
save gold = 0
temp greeting = "Hello"
{greeting}, {player_name}!
set gold = gold + 10
`)
	if len(script.Statements) != 5 {
		t.Fatalf("got %d statements", len(script.Statements))
	}
	if d, ok := script.Statements[0].(*ast.ExternDecl); !ok || d.Name != "player_name" {
		t.Fatalf("stmt 0 = %#v", script.Statements[0])
	}
	if d, ok := script.Statements[1].(*ast.SaveDecl); !ok || d.Name != "gold" {
		t.Fatalf("stmt 1 = %#v", script.Statements[1])
	}
	if d, ok := script.Statements[2].(*ast.TempDecl); !ok || render(d.Value) != `"Hello"` {
		t.Fatalf("stmt 2 = %#v", script.Statements[2])
	}
	line, ok := script.Statements[3].(*ast.Line)
	if !ok || len(line.Parts) != 4 {
		t.Fatalf("stmt 3 = %#v", script.Statements[3])
	}
	if ref, ok := line.Parts[0].(*ast.VarRef); !ok || ref.Name != "greeting" {
		t.Fatalf("part 0 = %#v", line.Parts[0])
	}
	if lit, ok := line.Parts[1].(*ast.Literal); !ok || lit.Text != ", " {
		t.Fatalf("part 1 = %#v", line.Parts[1])
	}
	as, ok := script.Statements[4].(*ast.Assignment)
	if !ok || render(as.Value) != "(gold + 10)" {
		t.Fatalf("stmt 4 = %#v", script.Statements[4])
	}
}

func TestNodeIDsFollowBuildOrder(t *testing.T) {
	script := mustParse(t, `temp a = 1
- A {a}
    temp b = a
- B
    Hi {a}
`)
	var ids []ast.NodeID
	decl := script.Statements[0].(*ast.TempDecl)
	ids = append(ids, decl.ID)
	set := script.Statements[1].(*ast.ChoiceSet)
	ids = append(ids, set.Choices[0].Parts[1].(*ast.VarRef).ID)
	inner := set.Choices[0].Nested[0].(*ast.TempDecl)
	ids = append(ids, inner.ID, inner.Value.(*ast.VarExpr).ID)
	ids = append(ids, set.Choices[1].Nested[0].(*ast.Line).Parts[1].(*ast.VarRef).ID)
	for i, id := range ids {
		if id != ast.NodeID(i+1) {
			t.Fatalf("ids = %v, want 1..%d", ids, len(ids))
		}
	}
	if script.NodeCount != uint32(len(ids)) {
		t.Fatalf("NodeCount = %d", script.NodeCount)
	}
}

func TestChoiceSetGroupsAdjacentChoices(t *testing.T) {
	script := mustParse(t, "Pick one.\n- A\n    Went A.\n- B\nAfter.\n- C\n")
	if len(script.Statements) != 4 {
		t.Fatalf("got %d statements", len(script.Statements))
	}
	set := script.Statements[1].(*ast.ChoiceSet)
	if len(set.Choices) != 2 {
		t.Fatalf("first set has %d choices", len(set.Choices))
	}
	if len(set.Choices[0].Nested) != 1 || len(set.Choices[1].Nested) != 0 {
		t.Fatalf("nested = %d/%d", len(set.Choices[0].Nested), len(set.Choices[1].Nested))
	}
	if last := script.Statements[3].(*ast.ChoiceSet); len(last.Choices) != 1 {
		t.Fatalf("last set has %d choices", len(last.Choices))
	}
}

func TestIfChain(t *testing.T) {
	script := mustParse(t, "if a\n    A\nelif b\n    B\nelse\n    C\nEnd\n")
	if len(script.Statements) != 2 {
		t.Fatalf("got %d statements", len(script.Statements))
	}
	st := script.Statements[0].(*ast.If)
	if len(st.Branches) != 2 || st.Else == nil || len(st.Else.Statements) != 1 {
		t.Fatalf("if = %#v", st)
	}
	if render(st.Branches[1].Cond) != "b" {
		t.Fatalf("elif cond = %s", render(st.Branches[1].Cond))
	}
}

func TestRecoveryCollectsEveryError(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []ErrorKind
		stmts int
	}{
		{"two bad decls", "set = 1\nHello\ntemp x 2\nBye\n", []ErrorKind{ErrUnexpectedToken, ErrUnexpectedToken}, 2},
		{"missing expression", "temp x =\nHello\n", []ErrorKind{ErrExpectedExpression}, 1},
		{"unexpected indent", "Hello\n    World\nBye\n", []ErrorKind{ErrUnexpectedIndent}, 2},
		{"dangling elif", "elif x\n    Hi\nBye\n", []ErrorKind{ErrDanglingBranch}, 1},
		{"dangling else", "Hi\nelse\n", []ErrorKind{ErrDanglingBranch}, 1},
		{"missing block", "if x\nHello\n", []ErrorKind{ErrExpectedBlock}, 2},
		{"bad interpolation", "Hi {1}\nBye\n", []ErrorKind{ErrInvalidInterpolation}, 1},
		{"lexical only once", "Hi {name\nBye\n", []ErrorKind{ErrLexical}, 1},
		{"lexical in expr", "if !x\n    A\n", []ErrorKind{ErrLexical}, 1},
		{"broken if arm keeps chain", "if (x\n    A\nelse\n    B\nC\n", []ErrorKind{ErrUnexpectedToken}, 1},
		{"trailing tokens", "temp x = 1 2\n", []ErrorKind{ErrUnexpectedToken}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, errs := ParseSource(tt.src)
			got := errorKinds(errs)
			if len(got) != len(tt.kinds) {
				t.Fatalf("errors: %s", errorsSummary(errs))
			}
			for i := range got {
				if got[i] != tt.kinds[i] {
					t.Fatalf("errors: %s", errorsSummary(errs))
				}
			}
			if len(script.Statements) != tt.stmts {
				t.Fatalf("got %d statements, want %d", len(script.Statements), tt.stmts)
			}
		})
	}
}

func TestMaxErrors(t *testing.T) {
	src := "set = 1\nset = 2\nset = 3\n"
	_, errs := ParseWith(lexerScan(src), Options{MaxErrors: 2})
	if len(errs) != 2 {
		t.Fatalf("got %d errors", len(errs))
	}
}

func TestIdentifiersAreNFC(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"
	script := mustParse(t, "temp "+composed+" = 1\n{"+decomposed+"}\n")
	ref := script.Statements[1].(*ast.Line).Parts[0].(*ast.VarRef)
	if ref.Name != composed {
		t.Fatalf("name = %q, want %q", ref.Name, composed)
	}
}

func TestParseErrorDiagnostic(t *testing.T) {
	_, errs := ParseSource("Hi {1}\n")
	d := errs[0].Diagnostic(nil)
	l, ok := d.PrimaryLabel()
	if !ok || l.Message != "invalid interpolation" || len(d.Notes) == 0 {
		t.Fatalf("diagnostic = %+v", d)
	}

	_, errs = ParseSource("Hi }\n")
	d = errs[0].Diagnostic(nil)
	if l, _ := d.PrimaryLabel(); l.Message != "invalid token" {
		t.Fatalf("lexical diagnostic = %+v", d)
	}
}

func TestKeywordLineSuggestsEscape(t *testing.T) {
	cases := []struct {
		src     string
		keyword string
	}{
		{"if you want, come along\n", "if"},
		{"set sail at dawn\n", "set"},
		{"Hi\nelse where\n", "else"},
	}
	for _, tc := range cases {
		_, errs := ParseSource(tc.src)
		if len(errs) == 0 {
			t.Fatalf("%q: expected a parse error", tc.src)
		}
		if errs[0].Keyword != tc.keyword {
			t.Fatalf("%q: keyword = %q, want %q", tc.src, errs[0].Keyword, tc.keyword)
		}
		d := errs[0].Diagnostic(nil)
		want := "write '\\" + tc.keyword + "'"
		found := false
		for _, n := range d.Notes {
			found = found || strings.Contains(n, want)
		}
		if !found {
			t.Fatalf("%q: notes = %q, want a hint containing %q", tc.src, d.Notes, want)
		}
	}

	// экранированное ключевое слово - обычная реплика
	script := mustParse(t, `\if you want, come along`+"\n")
	line := script.Statements[0].(*ast.Line)
	if got := line.Parts[0].(*ast.Literal).Text; got != "if you want, come along" {
		t.Fatalf("text = %q", got)
	}

	// ошибка на следующей строке не наследует ключевое слово
	_, errs := ParseSource("set x = 1\nHi }\n")
	if len(errs) != 1 || errs[0].Kind != ErrLexical {
		t.Fatalf("errors = %s", errorsSummary(errs))
	}
	if errs[0].Keyword != "" {
		t.Fatalf("keyword leaked into the next line: %q", errs[0].Keyword)
	}
}
