package compiler

import (
	"bobbin/internal/ast"
	"bobbin/internal/bytecode"
)

var binaryOps = map[ast.BinaryOp]bytecode.Opcode{
	ast.OpAdd: bytecode.OpAdd,
	ast.OpSub: bytecode.OpSub,
	ast.OpMul: bytecode.OpMul,
	ast.OpDiv: bytecode.OpDiv,
	ast.OpEq:  bytecode.OpEq,
	ast.OpNe:  bytecode.OpNe,
	ast.OpLt:  bytecode.OpLt,
	ast.OpLe:  bytecode.OpLe,
	ast.OpGt:  bytecode.OpGt,
	ast.OpGe:  bytecode.OpGe,
}

// expr emits code leaving exactly one value on the stack.
func (c *compiler) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		switch e.Kind {
		case ast.LitNumber:
			c.constant(bytecode.Number(e.Num), e.Span)
		case ast.LitString:
			c.constant(bytecode.String(e.Str), e.Span)
		default:
			c.constant(bytecode.Bool(e.Bool), e.Span)
		}
	case *ast.VarExpr:
		c.load(e.ID, e.Name, e.Span)
	case *ast.UnaryExpr:
		c.expr(e.X)
		if e.Op == ast.OpNot {
			c.emit(bytecode.OpNot, 0, e.Span)
		} else {
			c.emit(bytecode.OpNegate, 0, e.Span)
		}
	case *ast.BinaryExpr:
		switch e.Op {
		case ast.OpAnd:
			c.and(e)
		case ast.OpOr:
			c.or(e)
		default:
			c.expr(e.X)
			c.expr(e.Y)
			c.emit(binaryOps[e.Op], 0, e.Span)
		}
	default:
		c.fail(e.Pos(), "unsupported expression %T", e)
	}
}

// and short-circuits to a bool:
//
//	x; JUMP_IF_FALSE f; y; JUMP_IF_FALSE f; true; JUMP end; f: false; end:
func (c *compiler) and(e *ast.BinaryExpr) {
	c.expr(e.X)
	lhsFalse := c.emitJump(bytecode.OpJumpIfFalse, e.Span)
	c.expr(e.Y)
	rhsFalse := c.emitJump(bytecode.OpJumpIfFalse, e.Span)
	c.constant(bytecode.Bool(true), e.Span)
	end := c.emitJump(bytecode.OpJump, e.Span)
	c.patch(lhsFalse)
	c.patch(rhsFalse)
	c.constant(bytecode.Bool(false), e.Span)
	c.patch(end)
}

// or short-circuits to a bool:
//
//	x; JUMP_IF_FALSE r; true; JUMP end; r: y; JUMP_IF_FALSE f; true; JUMP end; f: false; end:
func (c *compiler) or(e *ast.BinaryExpr) {
	c.expr(e.X)
	rhs := c.emitJump(bytecode.OpJumpIfFalse, e.Span)
	c.constant(bytecode.Bool(true), e.Span)
	end1 := c.emitJump(bytecode.OpJump, e.Span)
	c.patch(rhs)
	c.expr(e.Y)
	rhsFalse := c.emitJump(bytecode.OpJumpIfFalse, e.Span)
	c.constant(bytecode.Bool(true), e.Span)
	end2 := c.emitJump(bytecode.OpJump, e.Span)
	c.patch(rhsFalse)
	c.constant(bytecode.Bool(false), e.Span)
	c.patch(end1)
	c.patch(end2)
}
