package lexer

import (
	"strings"

	"bobbin/internal/token"
)

// scanText returns the next token of a dialogue line. ok is false when the
// line ended in blanks that produce no token.
func (lx *Lexer) scanText() (tok token.Token, ok bool) {
	if lx.cursor.EOF() || lx.cursor.AtNewline() {
		return lx.endOfLine(), true
	}
	start := lx.cursor.Mark()
	switch lx.cursor.Peek() {
	case '{':
		lx.cursor.Bump()
		lx.mode = modeInterp
		return token.Token{Kind: token.LBrace, Span: lx.cursor.SpanFrom(start), Text: "{"}, true
	case '}':
		lx.cursor.Bump()
		return lx.errorToken(start, `unmatched '}' in text; write '\}' for a literal brace`), true
	}

	var sb strings.Builder
	for !lx.cursor.EOF() && !lx.cursor.AtNewline() {
		b := lx.cursor.Peek()
		if b == '{' || b == '}' {
			break
		}
		if b == '\\' {
			lx.cursor.Bump()
			if lx.cursor.EOF() || lx.cursor.AtNewline() {
				sb.WriteByte('\\')
				break
			}
			sb.WriteRune(lx.cursor.BumpRune())
			continue
		}
		sb.WriteRune(lx.cursor.BumpRune())
	}

	text := sb.String()
	if lx.cursor.EOF() || lx.cursor.AtNewline() {
		text = strings.TrimRight(text, " \t")
		if text == "" {
			return token.Token{}, false
		}
	}
	return token.Token{Kind: token.Text, Span: lx.cursor.SpanFrom(start), Text: text}, true
}

// scanInterp scans inside "{...}". Anything but an identifier is still
// tokenized so the parser can say what was wrong.
func (lx *Lexer) scanInterp() token.Token {
	lx.skipBlanks()
	if lx.cursor.EOF() || lx.cursor.AtNewline() {
		lx.mode = modeText
		// пустой span там, где ждали '}': '{' и имя уже выданы токенами
		return lx.errorToken(lx.cursor.Mark(), "unterminated interpolation: expected '}'")
	}
	if lx.cursor.Peek() == '}' {
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.mode = modeText
		return token.Token{Kind: token.RBrace, Span: lx.cursor.SpanFrom(start), Text: "}"}
	}
	return lx.scanOperand()
}
