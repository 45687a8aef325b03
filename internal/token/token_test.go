package token_test

import (
	"testing"

	"bobbin/internal/source"
	"bobbin/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.Number, token.String, token.KwTrue, token.KwFalse}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwTemp, token.Plus, token.Text}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestKeywords(t *testing.T) {
	for word, want := range map[string]token.Kind{
		"temp": token.KwTemp, "save": token.KwSave, "extern": token.KwExtern,
		"set": token.KwSet, "if": token.KwIf, "elif": token.KwElif, "else": token.KwElse,
		"and": token.KwAnd, "or": token.KwOr, "not": token.KwNot,
	} {
		got, ok := token.LookupKeyword(word)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v", word, got, ok)
		}
		if !tok(got).IsKeyword() {
			t.Fatalf("%v should be a keyword", got)
		}
	}
	if _, ok := token.LookupKeyword("Temp"); ok {
		t.Fatalf("keywords are case-sensitive")
	}
}

func TestStatementKeywords(t *testing.T) {
	for _, w := range []string{"temp", "save", "extern", "set", "if", "elif", "else"} {
		if !token.IsStatementKeyword(w) {
			t.Errorf("%q should start a statement", w)
		}
	}
	for _, w := range []string{"and", "not", "true", "hello", ""} {
		if token.IsStatementKeyword(w) {
			t.Errorf("%q must not start a statement", w)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := token.Newline.String(); got != "newline" {
		t.Fatalf("Newline.String() = %q", got)
	}
	if got := token.Kind(250).String(); got != "unknown" {
		t.Fatalf("out-of-range kind = %q", got)
	}
}
