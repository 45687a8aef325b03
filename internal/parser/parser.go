package parser

import (
	"iter"

	"golang.org/x/text/unicode/norm"

	"bobbin/internal/ast"
	"bobbin/internal/lexer"
	"bobbin/internal/source"
	"bobbin/internal/token"
)

type Options struct {
	// MaxErrors stops collecting after this many errors; 0 means no limit.
	MaxErrors uint
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough(n int) bool {
	return o.MaxErrors != 0 && uint(n) >= o.MaxErrors
}

// Parser - состояние парсера на один скрипт
type Parser struct {
	ts       *stream
	ids      ast.IDs
	errs     []*ParseError
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	// header - ключевое слово, с которого начата текущая строка-инструкция
	header token.Token
}

// Parse builds a script from a token sequence. A nil error list means the
// script is syntactically valid; otherwise the returned script holds every
// statement that parsed cleanly.
func Parse(tokens iter.Seq[token.Token]) (*ast.Script, []*ParseError) {
	return ParseWith(tokens, Options{})
}

// ParseSource scans and parses src.
func ParseSource(src string) (*ast.Script, []*ParseError) {
	return Parse(lexer.Scan(src))
}

// ParseWith is Parse with options.
func ParseWith(tokens iter.Seq[token.Token], opts Options) (*ast.Script, []*ParseError) {
	p := &Parser{opts: opts}
	p.ts = newStream(tokens, p.lexical)
	defer p.ts.close()

	stmts := p.parseStmts()
	for !p.at(token.EOF) {
		// Only a stray Dedent can stop the top level early.
		p.advance()
		stmts = append(stmts, p.parseStmts()...)
	}
	script := &ast.Script{Statements: stmts, NodeCount: p.ids.Count()}
	if len(p.errs) == 0 {
		return script, nil
	}
	return script, p.errs
}

func (p *Parser) at(k token.Kind) bool {
	return p.ts.peek().Kind == k
}

func (p *Parser) peek() token.Token { return p.ts.peek() }

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	if p.at(token.Newline) {
		p.header = token.Token{}
	}
	tok := p.ts.advance()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// keyword consumes the statement keyword that opens a line.
func (p *Parser) keyword() token.Token {
	p.header = p.peek()
	return p.advance()
}

func (p *Parser) lexical(le *lexer.LexicalError) {
	p.push(&ParseError{Kind: ErrLexical, Span: le.Span, Message: le.Message, Lexical: le, Keyword: p.header.Text})
}

// report records a syntax error unless the line already failed to scan; the
// lexical error explains it better.
func (p *Parser) report(kind ErrorKind, sp source.Span, msg string) {
	if p.ts.lexBad {
		return
	}
	e := &ParseError{Kind: kind, Span: sp, Message: msg}
	switch kind {
	case ErrUnexpectedToken, ErrExpectedExpression, ErrDanglingBranch:
		e.Keyword = p.header.Text
	}
	p.push(e)
}

func (p *Parser) push(e *ParseError) {
	if p.opts.Enough(len(p.errs)) {
		return
	}
	p.errs = append(p.errs, e)
}

// diagSpan - лучший span для диагностики: пустой токен (синтетический
// перевод строки, EOF) указывает сразу за последним съеденным токеном.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Span.Empty() && p.lastSpan.End > 0 {
		return source.Span{Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем false.
func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.report(ErrUnexpectedToken, p.diagSpan(), "expected "+what+", found "+p.peek().Describe())
	return p.peek(), false
}

// expectLineEnd consumes the Newline that ends a statement.
func (p *Parser) expectLineEnd() bool {
	if p.at(token.Newline) {
		p.advance()
		return true
	}
	if p.at(token.EOF) {
		return true
	}
	p.report(ErrUnexpectedToken, p.diagSpan(), "expected end of line, found "+p.peek().Describe())
	return false
}

// resync skips to the start of the next statement at the current depth:
// past the next Newline and any indented block hanging off this line.
func (p *Parser) resync() {
	for !p.at(token.EOF) && !p.at(token.Dedent) {
		if p.advance().Kind == token.Newline {
			break
		}
	}
	if p.at(token.Indent) {
		p.skipBlock()
	}
}

// skipBlock consumes an Indent and everything up to its matching Dedent.
func (p *Parser) skipBlock() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.Indent:
			depth++
		case token.Dedent:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) ident(tok token.Token) string {
	return norm.NFC.String(tok.Text)
}
