package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Error carries a scanner message in Token.Text instead of source text.
	Error Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline ends a physical line ("\n" or "\r\n").
	Newline
	// Indent opens a nested block.
	Indent
	// Dedent closes a nested block.
	Dedent

	// Text is a literal run of dialogue text, escapes already decoded.
	Text
	// LBrace opens an interpolation inside text.
	LBrace // {
	// RBrace closes an interpolation.
	RBrace // }
	// ChoiceMarker starts a choice line.
	ChoiceMarker // -

	// Ident represents an identifier token.
	Ident
	// Number is a decimal number literal.
	Number
	// String is a quoted string literal; Text holds the decoded content.
	String

	// KwTemp represents the 'temp' keyword.
	KwTemp // temp
	// KwSave represents the 'save' keyword.
	KwSave // save
	// KwExtern represents the 'extern' keyword.
	KwExtern // extern
	// KwSet represents the 'set' keyword.
	KwSet // set
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElif represents the 'elif' keyword.
	KwElif // elif
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwTrue represents the 'true' literal.
	KwTrue // true
	// KwFalse represents the 'false' literal.
	KwFalse // false
	// KwAnd represents the 'and' operator.
	KwAnd // and
	// KwOr represents the 'or' operator.
	KwOr // or
	// KwNot represents the 'not' operator.
	KwNot // not

	Assign // =
	EqEq   // ==
	BangEq // !=
	Lt     // <
	LtEq   // <=
	Gt     // >
	GtEq   // >=
	Plus   // +
	Minus  // -
	Star   // *
	Slash  // /
	LParen // (
	RParen // )
)

var kindNames = [...]string{
	Error:        "error",
	EOF:          "end of file",
	Newline:      "newline",
	Indent:       "indent",
	Dedent:       "dedent",
	Text:         "text",
	LBrace:       "'{'",
	RBrace:       "'}'",
	ChoiceMarker: "choice marker",
	Ident:        "identifier",
	Number:       "number",
	String:       "string",
	KwTemp:       "'temp'",
	KwSave:       "'save'",
	KwExtern:     "'extern'",
	KwSet:        "'set'",
	KwIf:         "'if'",
	KwElif:       "'elif'",
	KwElse:       "'else'",
	KwTrue:       "'true'",
	KwFalse:      "'false'",
	KwAnd:        "'and'",
	KwOr:         "'or'",
	KwNot:        "'not'",
	Assign:       "'='",
	EqEq:         "'=='",
	BangEq:       "'!='",
	Lt:           "'<'",
	LtEq:         "'<='",
	Gt:           "'>'",
	GtEq:         "'>='",
	Plus:         "'+'",
	Minus:        "'-'",
	Star:         "'*'",
	Slash:        "'/'",
	LParen:       "'('",
	RParen:       "')'",
}

// String returns the name used in parser messages ("expected identifier, found newline").
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsEOF reports whether k is the end-of-input marker.
func (k Kind) IsEOF() bool { return k == EOF }

// EndsStatement reports whether k terminates a statement line.
func (k Kind) EndsStatement() bool {
	return k == Newline || k == EOF || k == Dedent
}
