package lexer

import (
	"bobbin/internal/diag"
	"bobbin/internal/source"
	"bobbin/internal/token"
)

// LexicalError is a malformed piece of source. The lexer reports it in-band
// as an Error token; the parser lifts it into this type.
type LexicalError struct {
	Message string
	Span    source.Span
}

// FromToken builds the error carried by an Error token.
func FromToken(tok token.Token) *LexicalError {
	return &LexicalError{Message: tok.Text, Span: tok.Span}
}

func (e *LexicalError) Error() string {
	return "lexical error at " + e.Span.String() + ": " + e.Message
}

// Diagnostic converts the error for display.
func (e *LexicalError) Diagnostic(*diag.Context) diag.Diagnostic {
	return diag.NewError(e.Message, e.Span, "invalid token")
}
