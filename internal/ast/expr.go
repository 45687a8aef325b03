package ast

import "bobbin/internal/source"

// Expr is an expression on the right of `=` or after `if`/`elif`.
type Expr interface {
	exprNode()
	Pos() source.Span
}

type LitKind uint8

const (
	LitNumber LitKind = iota
	LitString
	LitBool
)

// LiteralExpr is a constant. Only the field matching Kind is meaningful.
type LiteralExpr struct {
	Kind LitKind
	Num  float64
	Str  string
	Bool bool
	Span source.Span
}

// VarExpr reads a variable.
type VarExpr struct {
	ID   NodeID
	Name string
	Span source.Span
}

type UnaryOp uint8

const (
	OpNot UnaryOp = iota
	OpNeg
)

type UnaryExpr struct {
	Op   UnaryOp
	X    Expr
	Span source.Span
}

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var binaryNames = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "and", OpOr: "or",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}
	return "?"
}

func (op UnaryOp) String() string {
	if op == OpNot {
		return "not"
	}
	return "-"
}

type BinaryExpr struct {
	Op   BinaryOp
	X, Y Expr
	Span source.Span
}

func (*LiteralExpr) exprNode() {}
func (*VarExpr) exprNode()     {}
func (*UnaryExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}

func (e *LiteralExpr) Pos() source.Span { return e.Span }
func (e *VarExpr) Pos() source.Span     { return e.Span }
func (e *UnaryExpr) Pos() source.Span   { return e.Span }
func (e *BinaryExpr) Pos() source.Span  { return e.Span }
