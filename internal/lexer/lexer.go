package lexer

import (
	"iter"

	"bobbin/internal/source"
	"bobbin/internal/token"
)

type mode uint8

const (
	modeLineStart mode = iota // до первого значимого символа строки
	modeText                  // реплика диалога
	modeInterp                // внутри {...} в реплике
	modeCode                  // строка-инструкция (temp, set, if, ...)
)

// tabWidth is how many columns a tab counts for in indentation.
const tabWidth = 4

// Lexer turns script text into tokens on demand. It holds no state beyond
// its cursor, the indentation stack and a small queue of synthetic tokens.
type Lexer struct {
	cursor  Cursor
	mode    mode
	indents []int
	pending []token.Token // Indent/Dedent/EOF, выдаются раньше сканирования
	look    *token.Token  // 1 элементный буфер для Peek
	line    int
	done    bool
}

// New creates a lexer over src.
func New(src string) *Lexer {
	return &Lexer{
		cursor:  NewCursor(src),
		mode:    modeLineStart,
		indents: []int{0},
		line:    1,
	}
}

// NewFile creates a lexer over a loaded script.
func NewFile(f *source.File) *Lexer {
	return New(f.Content)
}

// Scan returns the lazy token sequence of src. The sequence ends with EOF
// and cannot be restarted; scan again for a fresh pass.
func Scan(src string) iter.Seq[token.Token] {
	return New(src).Tokens()
}

// Tokens yields tokens up to and including EOF.
func (lx *Lexer) Tokens() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := lx.Next()
			if !yield(tok) || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// Line returns the 1-based physical line the cursor is on. Every "\n" and
// every "\r\n" advances it exactly once.
func (lx *Lexer) Line() int {
	return lx.line
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	for {
		if len(lx.pending) > 0 {
			tok := lx.pending[0]
			lx.pending = lx.pending[1:]
			return tok
		}
		if lx.done {
			return lx.makeEmpty(token.EOF)
		}

		switch lx.mode {
		case modeLineStart:
			lx.startLine()
			continue
		case modeText:
			if tok, ok := lx.scanText(); ok {
				return tok
			}
			continue
		case modeInterp:
			return lx.scanInterp()
		default:
			return lx.scanCode()
		}
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// newline consumes "\n", "\r\n" or a lone "\r" and switches to line-start mode.
func (lx *Lexer) newline() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.Eat('\r') {
		lx.cursor.Eat('\n')
	} else {
		lx.cursor.Eat('\n')
	}
	lx.line++
	lx.mode = modeLineStart
	return token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(start), Text: "\n"}
}

// endOfLine produces the Newline that terminates the current line: a real
// one, or a synthetic empty one when the text ends without a terminator.
func (lx *Lexer) endOfLine() token.Token {
	if lx.cursor.EOF() {
		lx.mode = modeLineStart
		return lx.makeEmpty(token.Newline)
	}
	return lx.newline()
}

func (lx *Lexer) makeEmpty(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(lx.cursor.Mark())}
}

func (lx *Lexer) errorToken(start Mark, msg string) token.Token {
	return token.Token{Kind: token.Error, Span: lx.cursor.SpanFrom(start), Text: msg}
}
