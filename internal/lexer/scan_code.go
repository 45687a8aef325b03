package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"bobbin/internal/token"
)

// scanCode scans the rest of a statement line.
func (lx *Lexer) scanCode() token.Token {
	lx.skipBlanks()
	if lx.atComment() {
		lx.skipToLineEnd()
	}
	if lx.cursor.EOF() || lx.cursor.AtNewline() {
		return lx.endOfLine()
	}
	return lx.scanOperand()
}

func (lx *Lexer) scanOperand() token.Token {
	r, _ := lx.cursor.PeekRune()
	switch {
	case isIdentStartRune(r):
		return lx.scanIdentOrKeyword()
	case r < 0x80 && isDec(byte(r)):
		return lx.scanNumber()
	case r == '"':
		return lx.scanString()
	default:
		return lx.scanOperator()
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for {
		r, sz := lx.cursor.PeekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			break
		}
		lx.cursor.BumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.cursor.Src[sp.Start:sp.End]
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// Поддержка: 0, 123, 1.5. Экспонент и другие базы не нужны в диалогах.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Number, Span: sp, Text: lx.cursor.Src[sp.Start:sp.End]}
}

// scanString decodes "..." with \" \\ \n \t escapes; other escaped
// characters stand for themselves.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	var sb strings.Builder
	for {
		if lx.cursor.EOF() || lx.cursor.AtNewline() {
			return lx.errorToken(start, "unterminated string literal")
		}
		switch b := lx.cursor.Peek(); b {
		case '"':
			lx.cursor.Bump()
			return token.Token{Kind: token.String, Span: lx.cursor.SpanFrom(start), Text: sb.String()}
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() || lx.cursor.AtNewline() {
				continue
			}
			switch e := lx.cursor.BumpRune(); e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteRune(e)
			}
		default:
			sb.WriteRune(lx.cursor.BumpRune())
		}
	}
}

func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Mark()
	r := lx.cursor.BumpRune()
	kind := token.Error
	switch r {
	case '=':
		kind = token.Assign
		if lx.cursor.Eat('=') {
			kind = token.EqEq
		}
	case '!':
		if !lx.cursor.Eat('=') {
			return lx.errorToken(start, "unexpected '!'; use 'not' for negation")
		}
		kind = token.BangEq
	case '<':
		kind = token.Lt
		if lx.cursor.Eat('=') {
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Eat('=') {
			kind = token.GtEq
		}
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	default:
		return lx.errorToken(start, fmt.Sprintf("unexpected character %q", r))
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.cursor.Src[sp.Start:sp.End]}
}

// ===== Классификаторы =====

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return b == '_' || isASCIILetter(b) || isDec(b) || b >= 0x80
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isBlankOrEnd(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == 0
}
