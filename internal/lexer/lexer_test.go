package lexer_test

import (
	"strings"
	"testing"

	"bobbin/internal/lexer"
	"bobbin/internal/token"
)

func kinds(src string) []token.Kind {
	var out []token.Kind
	for tok := range lexer.Scan(src) {
		out = append(out, tok.Kind)
	}
	return out
}

func collect(src string) []token.Token {
	var out []token.Token
	for tok := range lexer.Scan(src) {
		out = append(out, tok)
	}
	return out
}

func sameKinds(t *testing.T, src string, got, want []token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v (all: %v)", src, i, got[i], want[i], got)
		}
	}
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"empty", "", []token.Kind{token.EOF}},
		{"only comments", "// hi\n\n   // there\n", []token.Kind{token.EOF}},
		{"plain line", "Hello there.\n", []token.Kind{token.Text, token.Newline, token.EOF}},
		{"no trailing newline", "Hello", []token.Kind{token.Text, token.Newline, token.EOF}},
		{"interpolation", "Hi {name}!", []token.Kind{
			token.Text, token.LBrace, token.Ident, token.RBrace, token.Text, token.Newline, token.EOF,
		}},
		{"temp decl", "temp x = 1 + 2", []token.Kind{
			token.KwTemp, token.Ident, token.Assign, token.Number, token.Plus, token.Number, token.Newline, token.EOF,
		}},
		{"comparison ops", "if a <= b and not c != d", []token.Kind{
			token.KwIf, token.Ident, token.LtEq, token.Ident, token.KwAnd, token.KwNot, token.Ident, token.BangEq, token.Ident,
			token.Newline, token.EOF,
		}},
		{"choices", "- Yes\n    Good.\n- No\n", []token.Kind{
			token.ChoiceMarker, token.Text, token.Newline,
			token.Indent, token.Text, token.Newline,
			token.Dedent, token.ChoiceMarker, token.Text, token.Newline, token.EOF,
		}},
		{"dedent at eof", "if x\n  a\n    b", []token.Kind{
			token.KwIf, token.Ident, token.Newline,
			token.Indent, token.Text, token.Newline,
			token.Indent, token.Text, token.Newline,
			token.Dedent, token.Dedent, token.EOF,
		}},
		{"keyword prefix is text", "iffy weather\n", []token.Kind{token.Text, token.Newline, token.EOF}},
		{"dash without blank is text", "-- wait\n", []token.Kind{token.Text, token.Newline, token.EOF}},
		{"trailing comment in code", "set x = 1 // note\n", []token.Kind{
			token.KwSet, token.Ident, token.Assign, token.Number, token.Newline, token.EOF,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sameKinds(t, tt.src, kinds(tt.src), tt.want)
		})
	}
}

func TestTextEscapesAndTrim(t *testing.T) {
	toks := collect(`Price: \{10\} \\ done   ` + "\n")
	if toks[0].Kind != token.Text {
		t.Fatalf("first token = %v", toks[0].Kind)
	}
	if got, want := toks[0].Text, `Price: {10} \ done`; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestEscapedKeywordStartsText(t *testing.T) {
	toks := collect(`\if you want, come along` + "\n" + `- \else nothing` + "\n")
	if toks[0].Kind != token.Text || toks[0].Text != "if you want, come along" {
		t.Fatalf("first token = %+v", toks[0])
	}
	if toks[2].Kind != token.ChoiceMarker || toks[3].Kind != token.Text || toks[3].Text != "else nothing" {
		t.Fatalf("choice tokens = %+v %+v", toks[2], toks[3])
	}
}

func TestInterpolationKeepsInnerBlanks(t *testing.T) {
	toks := collect("Hello, {world}!")
	if toks[0].Text != "Hello, " {
		t.Fatalf("text before interpolation = %q", toks[0].Text)
	}
	if toks[2].Kind != token.Ident || toks[2].Text != "world" {
		t.Fatalf("interpolated ident = %+v", toks[2])
	}
	if toks[2].Span.Start != 8 || toks[2].Span.End != 13 {
		t.Fatalf("ident span = %s", toks[2].Span)
	}
}

func TestStringAndNumberLiterals(t *testing.T) {
	toks := collect(`temp s = "a \"b\"\n" + 1.5`)
	if toks[3].Kind != token.String || toks[3].Text != "a \"b\"\n" {
		t.Fatalf("string = %+v", toks[3])
	}
	if toks[5].Kind != token.Number || toks[5].Text != "1.5" {
		t.Fatalf("number = %+v", toks[5])
	}
}

func TestMultibyteText(t *testing.T) {
	src := "Привет, {имя}! 👋\n"
	toks := collect(src)
	if toks[0].Text != "Привет, " {
		t.Fatalf("text = %q", toks[0].Text)
	}
	if toks[2].Kind != token.Ident || toks[2].Text != "имя" {
		t.Fatalf("ident = %+v", toks[2])
	}
	if toks[4].Text != "! 👋" {
		t.Fatalf("tail text = %q", toks[4].Text)
	}
	for _, tok := range toks {
		if tok.Span.End > uint32(len(src)) || tok.Span.Start > tok.Span.End {
			t.Fatalf("bad span %s for %v", tok.Span, tok.Kind)
		}
	}
}

func TestUnterminatedInterpolationSpan(t *testing.T) {
	src := "Hi {unterminated\n"
	toks := collect(src)
	var prevEnd uint32
	for i, tok := range toks {
		if tok.Span.Start < prevEnd {
			t.Fatalf("token %d (%v) at %s overlaps the previous one", i, tok.Kind, tok.Span)
		}
		prevEnd = tok.Span.End
		if tok.Kind == token.Error {
			want := uint32(len("Hi {unterminated"))
			if tok.Span.Start != want || tok.Span.End != want {
				t.Fatalf("error span = %s, want empty at %d", tok.Span, want)
			}
			return
		}
	}
	t.Fatalf("no error token in %+v", toks)
}

func TestErrorsDoNotStopScanning(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"stray brace", "Hi } there\nNext\n", "unmatched '}'"},
		{"unterminated interp", "Hi {name\nNext\n", "unterminated interpolation"},
		{"unterminated string", "temp s = \"abc\nNext\n", "unterminated string literal"},
		{"bang", "if !x\nNext\n", "use 'not'"},
		{"odd char", "set x = 1 # 2\nNext\n", "unexpected character"},
		{"bad dedent", "if x\n    a\n  b\nNext\n", "inconsistent indentation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := collect(tt.src)
			var found bool
			for _, tok := range toks {
				if tok.Kind == token.Error && strings.Contains(tok.Text, tt.message) {
					found = true
				}
			}
			if !found {
				t.Fatalf("no error containing %q in %+v", tt.message, toks)
			}
			var sawNext bool
			for _, tok := range toks {
				if tok.Kind == token.Text && tok.Text == "Next" {
					sawNext = true
				}
			}
			if !sawNext {
				t.Fatalf("scanning stopped after error: %+v", toks)
			}
			if toks[len(toks)-1].Kind != token.EOF {
				t.Fatalf("stream does not end with EOF")
			}
		})
	}
}

func TestLineCounting(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"", 1},
		{"a", 1},
		{"a\nb\n", 3},
		{"a\r\nb\r\n", 3},
		{"a\r\n\r\nb", 3},
		{"a\rb", 2},
	}
	for _, tt := range tests {
		lx := lexer.New(tt.src)
		for tok := lx.Next(); tok.Kind != token.EOF; tok = lx.Next() {
		}
		if got := lx.Line(); got != tt.want {
			t.Fatalf("Line(%q) = %d, want %d", tt.src, got, tt.want)
		}
	}
}

func TestCRLFProducesOneNewline(t *testing.T) {
	got := kinds("a\r\nb\r\n")
	sameKinds(t, "crlf", got, []token.Kind{token.Text, token.Newline, token.Text, token.Newline, token.EOF})
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := lexer.New("temp x = 1")
	p := lx.Peek()
	n := lx.Next()
	if p != n || n.Kind != token.KwTemp {
		t.Fatalf("peek %+v, next %+v", p, n)
	}
	for i := 0; i < 10; i++ {
		lx.Next()
	}
	if lx.Next().Kind != token.EOF {
		t.Fatalf("lexer does not stay at EOF")
	}
}

func TestFromToken(t *testing.T) {
	toks := collect("Hi }")
	var errTok token.Token
	for _, tok := range toks {
		if tok.Kind == token.Error {
			errTok = tok
		}
	}
	le := lexer.FromToken(errTok)
	d := le.Diagnostic(nil)
	l, ok := d.PrimaryLabel()
	if !ok || l.Message != "invalid token" || l.Span != errTok.Span {
		t.Fatalf("diagnostic = %+v", d)
	}
}
