package parser

import (
	"bobbin/internal/ast"
	"bobbin/internal/source"
	"bobbin/internal/token"
)

// parseStmts parses statements until the enclosing block ends (Dedent or
// EOF). The terminator is left for the caller.
func (p *Parser) parseStmts() []ast.Stmt {
	var out []ast.Stmt
	for {
		switch p.peek().Kind {
		case token.EOF, token.Dedent:
			return out
		case token.Newline:
			p.advance()
		case token.Indent:
			p.report(ErrUnexpectedIndent, p.peek().Span, "unexpected indentation")
			p.skipBlock()
		case token.ChoiceMarker:
			out = append(out, p.parseChoiceSet())
		case token.KwIf:
			if st := p.parseIf(); st != nil {
				out = append(out, st)
			}
		case token.KwElif, token.KwElse:
			tok := p.keyword()
			p.report(ErrDanglingBranch, tok.Span, "'"+tok.Text+"' without a preceding 'if'")
			p.resync()
		default:
			if st, ok := p.parseStmt(); ok {
				out = append(out, st)
			} else {
				p.resync()
			}
		}
	}
}

// parseStmt выбирает по первому токену нужный распознаватель.
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	switch p.peek().Kind {
	case token.KwTemp:
		p.keyword()
		id, name, span, value, ok := p.parseBinding(true)
		if !ok {
			return nil, false
		}
		return &ast.TempDecl{ID: id, Name: name, Span: span, Value: value}, true
	case token.KwSave:
		p.keyword()
		id, name, span, value, ok := p.parseBinding(true)
		if !ok {
			return nil, false
		}
		return &ast.SaveDecl{ID: id, Name: name, Span: span, Value: value}, true
	case token.KwSet:
		p.keyword()
		id, name, span, value, ok := p.parseBinding(true)
		if !ok {
			return nil, false
		}
		return &ast.Assignment{ID: id, Name: name, Span: span, Value: value}, true
	case token.KwExtern:
		p.keyword()
		id, name, span, _, ok := p.parseBinding(false)
		if !ok {
			return nil, false
		}
		return &ast.ExternDecl{ID: id, Name: name, Span: span}, true
	case token.Text, token.LBrace:
		return p.parseLine()
	default:
		tok := p.peek()
		p.report(ErrUnexpectedToken, p.diagSpan(), "unexpected "+tok.Describe()+" at start of statement")
		return nil, false
	}
}

// parseBinding parses `name [= expr]` followed by the end of the line.
func (p *Parser) parseBinding(withValue bool) (ast.NodeID, string, source.Span, ast.Expr, bool) {
	nameTok, ok := p.expect(token.Ident, "a variable name")
	if !ok {
		return ast.NoNodeID, "", nameTok.Span, nil, false
	}
	id := p.ids.Next()
	name := p.ident(nameTok)
	var value ast.Expr
	if withValue {
		if _, ok := p.expect(token.Assign, "'='"); !ok {
			return id, name, nameTok.Span, nil, false
		}
		if value, ok = p.parseExpr(); !ok {
			return id, name, nameTok.Span, nil, false
		}
	}
	if !p.expectLineEnd() {
		return id, name, nameTok.Span, value, false
	}
	return id, name, nameTok.Span, value, true
}

// parseLine parses a dialogue line up to and including its Newline.
func (p *Parser) parseLine() (ast.Stmt, bool) {
	parts, span, ok := p.parseTextParts()
	if !ok {
		return nil, false
	}
	if !p.expectLineEnd() {
		return nil, false
	}
	return &ast.Line{Parts: parts, Span: span}, true
}

// parseTextParts collects literal runs and interpolations up to the end of
// the line.
func (p *Parser) parseTextParts() ([]ast.TextPart, source.Span, bool) {
	var (
		parts []ast.TextPart
		span  source.Span
		first = true
	)
	extend := func(sp source.Span) {
		if first {
			span, first = sp, false
			return
		}
		span = span.Cover(sp)
	}
	for {
		switch p.peek().Kind {
		case token.Text:
			tok := p.advance()
			parts = append(parts, &ast.Literal{Text: tok.Text, Span: tok.Span})
			extend(tok.Span)
		case token.LBrace:
			open := p.advance()
			ref, ok := p.parseInterpolation(open)
			if !ok {
				return nil, span, false
			}
			parts = append(parts, ref)
			extend(open.Span.Cover(p.lastSpan))
		default:
			if first {
				span = p.diagSpan()
			}
			return parts, span, true
		}
	}
}

// parseInterpolation parses `name}` after an opening brace.
func (p *Parser) parseInterpolation(open token.Token) (*ast.VarRef, bool) {
	if !p.at(token.Ident) {
		sp := open.Span
		if !p.at(token.Newline) && !p.at(token.EOF) {
			sp = sp.Cover(p.peek().Span)
		}
		p.report(ErrInvalidInterpolation, sp, "expected a variable name inside '{}', found "+p.peek().Describe())
		return nil, false
	}
	nameTok := p.advance()
	ref := &ast.VarRef{ID: p.ids.Next(), Name: p.ident(nameTok), Span: nameTok.Span}
	if !p.at(token.RBrace) {
		p.report(ErrInvalidInterpolation, open.Span.Cover(p.diagSpan()), "expected '}' after '"+nameTok.Text+"', found "+p.peek().Describe())
		return nil, false
	}
	p.advance()
	return ref, true
}

// parseChoiceSet groups adjacent choice lines into one set.
func (p *Parser) parseChoiceSet() ast.Stmt {
	set := &ast.ChoiceSet{Span: p.peek().Span}
	for p.at(token.ChoiceMarker) {
		marker := p.advance()
		parts, textSpan, ok := p.parseTextParts()
		if !ok || !p.expectLineEnd() {
			p.resync()
			continue
		}
		ch := &ast.Choice{Parts: parts, Span: marker.Span.Cover(textSpan)}
		if p.at(token.Indent) {
			ch.Nested = p.parseBlock().Statements
		}
		set.Choices = append(set.Choices, ch)
		set.Span = set.Span.Cover(ch.Span)
	}
	return set
}

// parseBlock parses an indented block. The caller checked for Indent.
func (p *Parser) parseBlock() *ast.Block {
	open := p.advance()
	stmts := p.parseStmts()
	b := &ast.Block{Statements: stmts, Span: open.Span.Cover(p.lastSpan)}
	if p.at(token.Dedent) {
		p.advance()
	}
	return b
}

// requireBlock parses the block that must follow an if/elif/else header.
func (p *Parser) requireBlock(header token.Token) *ast.Block {
	if !p.at(token.Indent) {
		p.report(ErrExpectedBlock, header.Span, "expected an indented block after '"+header.Text+"'")
		return &ast.Block{Span: header.Span}
	}
	return p.parseBlock()
}

// parseIf parses a whole if/elif/else chain and recovers on its own: a
// broken arm is skipped together with its block, the rest of the chain still
// parses. Returns nil when the `if` arm itself is broken.
func (p *Parser) parseIf() ast.Stmt {
	kw := p.keyword()
	stmt := &ast.If{Span: kw.Span}
	ok := p.parseBranch(kw, stmt)
	if !ok {
		p.resync()
	}
	for p.at(token.KwElif) {
		elif := p.keyword()
		if !p.parseBranch(elif, stmt) {
			p.resync()
		}
	}
	if p.at(token.KwElse) {
		els := p.keyword()
		if p.expectLineEnd() {
			stmt.Else = p.requireBlock(els)
			stmt.Span = stmt.Span.Cover(stmt.Else.Span)
		} else {
			p.resync()
		}
	}
	if !ok {
		return nil
	}
	return stmt
}

// parseBranch parses `cond NEWLINE block` after an if/elif keyword.
func (p *Parser) parseBranch(kw token.Token, stmt *ast.If) bool {
	cond, ok := p.parseExpr()
	if !ok || !p.expectLineEnd() {
		return false
	}
	body := p.requireBlock(kw)
	stmt.Branches = append(stmt.Branches, ast.CondBranch{Cond: cond, Body: body, Span: kw.Span})
	stmt.Span = stmt.Span.Cover(body.Span)
	return true
}
