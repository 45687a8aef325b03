package parser

import (
	"strconv"

	"bobbin/internal/ast"
	"bobbin/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precOr             = 1 // or
	precAnd            = 2 // and
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * /
)

// binaryOp возвращает приоритет и оператор; prec < 0 - не бинарный оператор.
// Все операторы левоассоциативны.
func binaryOp(kind token.Kind) (int, ast.BinaryOp) {
	switch kind {
	case token.KwOr:
		return precOr, ast.OpOr
	case token.KwAnd:
		return precAnd, ast.OpAnd
	case token.EqEq:
		return precEquality, ast.OpEq
	case token.BangEq:
		return precEquality, ast.OpNe
	case token.Lt:
		return precComparison, ast.OpLt
	case token.LtEq:
		return precComparison, ast.OpLe
	case token.Gt:
		return precComparison, ast.OpGt
	case token.GtEq:
		return precComparison, ast.OpGe
	case token.Plus:
		return precAdditive, ast.OpAdd
	case token.Minus:
		return precAdditive, ast.OpSub
	case token.Star:
		return precMultiplicative, ast.OpMul
	case token.Slash:
		return precMultiplicative, ast.OpDiv
	default:
		return -1, 0
	}
}

func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinary(precOr)
}

// parseBinary - precedence climbing начиная с minPrec.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		prec, op := binaryOp(p.peek().Kind)
		if prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: op, X: left, Y: right, Span: left.Pos().Cover(right.Pos())}
	}
}

func (p *Parser) parseUnary() (ast.Expr, bool) {
	var op ast.UnaryOp
	switch p.peek().Kind {
	case token.KwNot:
		op = ast.OpNot
	case token.Minus:
		op = ast.OpNeg
	default:
		return p.parsePrimary()
	}
	tok := p.advance()
	x, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	return &ast.UnaryExpr{Op: op, X: x, Span: tok.Span.Cover(x.Pos())}, true
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Number:
		p.advance()
		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.report(ErrExpectedExpression, tok.Span, "invalid number literal '"+tok.Text+"'")
			return nil, false
		}
		return &ast.LiteralExpr{Kind: ast.LitNumber, Num: n, Span: tok.Span}, true
	case token.String:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitString, Str: tok.Text, Span: tok.Span}, true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitBool, Bool: tok.Kind == token.KwTrue, Span: tok.Span}, true
	case token.Ident:
		p.advance()
		return &ast.VarExpr{ID: p.ids.Next(), Name: p.ident(tok), Span: tok.Span}, true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RParen, "')'"); !ok {
			return nil, false
		}
		return inner, true
	default:
		p.report(ErrExpectedExpression, p.diagSpan(), "expected an expression, found "+tok.Describe())
		return nil, false
	}
}
