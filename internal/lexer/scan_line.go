package lexer

import (
	"bobbin/internal/token"
)

// startLine skips blank and comment lines, queues Indent/Dedent tokens for
// the next meaningful line and decides how the rest of it is scanned.
func (lx *Lexer) startLine() {
	for {
		if lx.cursor.EOF() {
			lx.finish()
			return
		}
		start := lx.cursor.Mark()
		width := lx.skipIndentation()
		switch {
		case lx.cursor.EOF():
			continue
		case lx.cursor.AtNewline():
			lx.newline()
			continue
		case lx.atComment():
			lx.skipToLineEnd()
			continue
		}
		lx.indent(start, width)
		lx.classifyLine()
		return
	}
}

// finish closes every open block and queues EOF.
func (lx *Lexer) finish() {
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.pending = append(lx.pending, lx.makeEmpty(token.Dedent))
	}
	lx.pending = append(lx.pending, lx.makeEmpty(token.EOF))
	lx.done = true
}

func (lx *Lexer) indent(start Mark, width int) {
	top := lx.indents[len(lx.indents)-1]
	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.pending = append(lx.pending, lx.makeEmpty(token.Indent))
	case width < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > width {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.pending = append(lx.pending, lx.makeEmpty(token.Dedent))
		}
		if lx.indents[len(lx.indents)-1] != width {
			lx.pending = append(lx.pending, lx.errorToken(start, "inconsistent indentation: does not match any outer block"))
		}
	}
}

// classifyLine picks the scanning mode from the first word of the line.
func (lx *Lexer) classifyLine() {
	if lx.cursor.Peek() == '-' && isBlankOrEnd(lx.cursor.PeekAt(1)) {
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.pending = append(lx.pending, token.Token{
			Kind: token.ChoiceMarker,
			Span: lx.cursor.SpanFrom(start),
			Text: "-",
		})
		lx.skipBlanks()
		lx.mode = modeText
		return
	}
	if token.IsStatementKeyword(lx.peekWord()) {
		lx.mode = modeCode
		return
	}
	lx.mode = modeText
}

// peekWord returns the ASCII word under the cursor, or "" when the word runs
// on into other identifier characters ("iffy", "set_piece").
func (lx *Lexer) peekWord() string {
	c := lx.cursor
	i := c.Off
	for i < c.Limit && isASCIILetter(c.Src[i]) {
		i++
	}
	if i < c.Limit && isIdentContinueByte(c.Src[i]) {
		return ""
	}
	return c.Src[c.Off:i]
}

// skipIndentation consumes leading blanks and returns their width in columns.
func (lx *Lexer) skipIndentation() int {
	width := 0
	for {
		switch lx.cursor.Peek() {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		default:
			return width
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipBlanks() {
	for b := lx.cursor.Peek(); b == ' ' || b == '\t'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) atComment() bool {
	return lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) == '/'
}

func (lx *Lexer) skipToLineEnd() {
	for !lx.cursor.EOF() && !lx.cursor.AtNewline() {
		lx.cursor.BumpRune()
	}
}
