package bytecode

import "fmt"

// Opcode is one VM operation.
type Opcode uint8

const (
	// OpConstant pushes Constants[Arg].
	OpConstant Opcode = iota
	// OpGetLocal pushes stack slot Arg.
	OpGetLocal
	// OpSetLocal pops a value into stack slot Arg.
	OpSetLocal
	// OpPop drops Arg values.
	OpPop
	// OpConcat pops Arg values and pushes their display texts joined.
	OpConcat
	// OpLine pops a value and pauses with it as a dialogue line.
	OpLine
	// OpChoiceSet pops Arg choice texts and pauses; Targets holds one
	// branch address per choice in declaration order.
	OpChoiceSet
	// OpJump continues at Arg.
	OpJump
	// OpJumpIfFalse pops a condition and continues at Arg when it is falsy.
	OpJumpIfFalse
	// OpInitStorage pops a default and stores it under the save variable
	// named Constants[Arg] unless the variable already exists.
	OpInitStorage
	// OpGetStorage pushes the save variable named Constants[Arg].
	OpGetStorage
	// OpSetStorage pops a value into the save variable named Constants[Arg].
	OpSetStorage
	// OpGetHost pushes the extern variable named Constants[Arg].
	OpGetHost
	OpNot
	OpNegate
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	// OpReturn ends the dialogue.
	OpReturn
)

var opNames = [...]string{
	OpConstant:    "CONSTANT",
	OpGetLocal:    "GET_LOCAL",
	OpSetLocal:    "SET_LOCAL",
	OpPop:         "POP",
	OpConcat:      "CONCAT",
	OpLine:        "LINE",
	OpChoiceSet:   "CHOICE_SET",
	OpJump:        "JUMP",
	OpJumpIfFalse: "JUMP_IF_FALSE",
	OpInitStorage: "INIT_STORAGE",
	OpGetStorage:  "GET_STORAGE",
	OpSetStorage:  "SET_STORAGE",
	OpGetHost:     "GET_HOST",
	OpNot:         "NOT",
	OpNegate:      "NEGATE",
	OpAdd:         "ADD",
	OpSub:         "SUB",
	OpMul:         "MUL",
	OpDiv:         "DIV",
	OpEq:          "EQ",
	OpNe:          "NE",
	OpLt:          "LT",
	OpLe:          "LE",
	OpGt:          "GT",
	OpGe:          "GE",
	OpReturn:      "RETURN",
}

func (op Opcode) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("OP(%d)", uint8(op))
}

// IsJump reports whether the instruction transfers control through Arg.
func (op Opcode) IsJump() bool {
	return op == OpJump || op == OpJumpIfFalse
}

// UsesConstant reports whether Arg indexes the constant pool.
func (op Opcode) UsesConstant() bool {
	switch op {
	case OpConstant, OpInitStorage, OpGetStorage, OpSetStorage, OpGetHost:
		return true
	default:
		return false
	}
}

// Instruction is one decoded operation. Arg's meaning depends on Op;
// Targets is only used by OpChoiceSet.
type Instruction struct {
	Op      Opcode `msgpack:"o"`
	Arg     int    `msgpack:"a,omitempty"`
	Targets []int  `msgpack:"t,omitempty"`
}
