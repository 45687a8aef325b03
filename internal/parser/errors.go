package parser

import (
	"fmt"

	"bobbin/internal/diag"
	"bobbin/internal/lexer"
	"bobbin/internal/source"
)

// ErrorKind classifies a syntax error.
type ErrorKind uint8

const (
	ErrLexical ErrorKind = iota
	ErrUnexpectedToken
	ErrExpectedExpression
	ErrUnexpectedIndent
	ErrExpectedBlock
	ErrDanglingBranch
	ErrInvalidInterpolation
)

var errorLabels = [...]string{
	ErrLexical:              "invalid token",
	ErrUnexpectedToken:      "unexpected token",
	ErrExpectedExpression:   "expected an expression here",
	ErrUnexpectedIndent:     "unexpected indentation",
	ErrExpectedBlock:        "expected an indented block after this line",
	ErrDanglingBranch:       "no matching 'if'",
	ErrInvalidInterpolation: "invalid interpolation",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorLabels) {
		return errorLabels[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// ParseError is one syntax problem. Lexical is set for ErrLexical.
type ParseError struct {
	Kind    ErrorKind
	Span    source.Span
	Message string
	Lexical *lexer.LexicalError
	// Keyword is the statement keyword that opened the failing line, if any.
	Keyword string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Span, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Lexical == nil {
		return nil
	}
	return e.Lexical
}

// Diagnostic converts the error for display.
func (e *ParseError) Diagnostic(ctx *diag.Context) diag.Diagnostic {
	if e.Kind == ErrLexical && e.Lexical != nil {
		return e.withKeywordNote(e.Lexical.Diagnostic(ctx))
	}
	d := e.withKeywordNote(diag.NewError(e.Message, e.Span, e.Kind.String()))
	switch e.Kind {
	case ErrDanglingBranch:
		d = d.WithNote("'elif' and 'else' must directly follow an 'if' block at the same indentation")
	case ErrInvalidInterpolation:
		d = d.WithNote("only a variable name may appear inside '{}'; write '\\{' for a literal brace")
	case ErrUnexpectedIndent:
		d = d.WithNote("only choices, 'if', 'elif' and 'else' open an indented block")
	}
	return d
}

// withKeywordNote explains how to start a dialogue line with a word that is
// also a statement keyword.
func (e *ParseError) withKeywordNote(d diag.Diagnostic) diag.Diagnostic {
	if e.Keyword == "" {
		return d
	}
	return d.WithNote(fmt.Sprintf("a line starting with '%s' is a statement; write '\\%s' to start dialogue text with it", e.Keyword, e.Keyword))
}
