package vm

import (
	"bobbin/internal/bytecode"
)

var opSymbols = map[bytecode.Opcode]string{
	bytecode.OpAdd: "+", bytecode.OpSub: "-", bytecode.OpMul: "*", bytecode.OpDiv: "/",
	bytecode.OpEq: "==", bytecode.OpNe: "!=",
	bytecode.OpLt: "<", bytecode.OpLe: "<=", bytecode.OpGt: ">", bytecode.OpGe: ">=",
}

func mismatch(op string, operands ...bytecode.Value) *RuntimeError {
	kinds := make([]string, len(operands))
	for i, v := range operands {
		kinds[i] = v.Kind.String()
	}
	return &RuntimeError{Kind: TypeMismatch, Op: op, Operands: kinds}
}

// binary evaluates x op y.
func binary(op bytecode.Opcode, x, y bytecode.Value) (bytecode.Value, *RuntimeError) {
	switch op {
	case bytecode.OpEq:
		return bytecode.Bool(x.Equal(y)), nil
	case bytecode.OpNe:
		return bytecode.Bool(!x.Equal(y)), nil
	case bytecode.OpAdd:
		if x.Kind == bytecode.KindString && y.Kind == bytecode.KindString {
			return bytecode.String(x.Str + y.Str), nil
		}
	case bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
		if x.Kind == bytecode.KindString && y.Kind == bytecode.KindString {
			return bytecode.Bool(compare(op, cmpStrings(x.Str, y.Str))), nil
		}
	}
	if x.Kind != bytecode.KindNumber || y.Kind != bytecode.KindNumber {
		return bytecode.Value{}, mismatch(opSymbols[op], x, y)
	}
	a, b := x.Num, y.Num
	switch op {
	case bytecode.OpAdd:
		return bytecode.Number(a + b), nil
	case bytecode.OpSub:
		return bytecode.Number(a - b), nil
	case bytecode.OpMul:
		return bytecode.Number(a * b), nil
	case bytecode.OpDiv:
		if b == 0 {
			return bytecode.Value{}, &RuntimeError{Kind: DivisionByZero}
		}
		return bytecode.Number(a / b), nil
	case bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
		c := 0
		if a < b {
			c = -1
		} else if a > b {
			c = 1
		}
		return bytecode.Bool(compare(op, c)), nil
	}
	return bytecode.Value{}, mismatch(op.String(), x, y)
}

func cmpStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compare(op bytecode.Opcode, c int) bool {
	switch op {
	case bytecode.OpLt:
		return c < 0
	case bytecode.OpLe:
		return c <= 0
	case bytecode.OpGt:
		return c > 0
	default:
		return c >= 0
	}
}
