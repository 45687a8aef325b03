package token

import (
	"bobbin/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	// Text is the lexeme for most kinds, the decoded value for Text and
	// String, and the message for Error.
	Text string
}

// IsLiteral reports whether the token is a number, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwTemp && t.Kind <= KwNot
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Describe names the token for "found ..." parts of messages.
func (t Token) Describe() string {
	switch t.Kind {
	case Ident:
		return "identifier '" + t.Text + "'"
	case Text:
		return "text"
	default:
		return t.Kind.String()
	}
}
