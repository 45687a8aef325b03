// Package bytecode defines the compiled form of a script: values, opcodes,
// instructions and the Chunk that holds them.
package bytecode

import (
	"math"
	"strconv"
)

// Kind identifies the dynamic type of a Value.
type Kind uint8

const (
	// KindNumber is a float64 number.
	KindNumber Kind = iota
	// KindString is a UTF-8 string.
	KindString
	// KindBool is a boolean.
	KindBool
)

// String returns a human-readable name for the value kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is a tagged union of number, string and bool. Only the field
// matching Kind is meaningful; the zero Value is the number 0.
type Value struct {
	Kind Kind    `msgpack:"k"`
	Num  float64 `msgpack:"n,omitempty"`
	Str  string  `msgpack:"s,omitempty"`
	Bool bool    `msgpack:"b,omitempty"`
}

// Number creates a number value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// String creates a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Display renders the value as it appears in dialogue text. Whole numbers
// print without a fractional part: 3, not 3.0.
func (v Value) Display() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		if v.Num == math.Trunc(v.Num) && math.Abs(v.Num) < 1e15 {
			return strconv.FormatFloat(v.Num, 'f', -1, 64)
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
}

// String renders the value for debugging; strings are quoted.
func (v Value) String() string {
	if v.Kind == KindString {
		return strconv.Quote(v.Str)
	}
	return v.Display()
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindBool:
		return v.Bool == o.Bool
	default:
		return v.Num == o.Num
	}
}

// Truthy is the condition value of v: false, 0 and "" are false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindString:
		return v.Str != ""
	case KindBool:
		return v.Bool
	default:
		return v.Num != 0
	}
}
