package bytecode

import (
	"fmt"

	"bobbin/internal/source"
)

// Chunk is a compiled script. Spans is parallel to Code and maps each
// instruction back to the source it was lowered from.
type Chunk struct {
	Constants []Value       `msgpack:"constants"`
	Code      []Instruction `msgpack:"code"`
	Spans     []source.Span `msgpack:"spans"`

	// MaxSlots is the peak number of temps alive at once.
	MaxSlots int `msgpack:"max_slots"`
}

// Emit appends an instruction and returns its address.
func (c *Chunk) Emit(in Instruction, span source.Span) int {
	c.Code = append(c.Code, in)
	c.Spans = append(c.Spans, span)
	return len(c.Code) - 1
}

// AddConstant appends v to the pool, reusing an equal entry.
func (c *Chunk) AddConstant(v Value) int {
	for i, k := range c.Constants {
		if k.Equal(v) {
			return i
		}
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Len returns the number of instructions.
func (c *Chunk) Len() int { return len(c.Code) }

// ValidationError describes a malformed chunk.
type ValidationError struct {
	At     int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid chunk at %04d: %s", e.At, e.Reason)
}

// Validate checks that every jump and choice target is a valid address,
// every constant operand is in range and name operands are strings.
func (c *Chunk) Validate() error {
	if len(c.Spans) != len(c.Code) {
		return &ValidationError{At: 0, Reason: fmt.Sprintf("%d spans for %d instructions", len(c.Spans), len(c.Code))}
	}
	n := len(c.Code)
	for i, in := range c.Code {
		switch {
		case in.Op.IsJump():
			if in.Arg < 0 || in.Arg >= n {
				return &ValidationError{At: i, Reason: fmt.Sprintf("jump target %d out of range", in.Arg)}
			}
		case in.Op == OpChoiceSet:
			if in.Arg != len(in.Targets) {
				return &ValidationError{At: i, Reason: fmt.Sprintf("%d choices but %d targets", in.Arg, len(in.Targets))}
			}
			for _, t := range in.Targets {
				if t < 0 || t >= n {
					return &ValidationError{At: i, Reason: fmt.Sprintf("choice target %d out of range", t)}
				}
			}
		case in.Op.UsesConstant():
			if in.Arg < 0 || in.Arg >= len(c.Constants) {
				return &ValidationError{At: i, Reason: fmt.Sprintf("constant #%d out of range", in.Arg)}
			}
			if in.Op != OpConstant && c.Constants[in.Arg].Kind != KindString {
				return &ValidationError{At: i, Reason: fmt.Sprintf("%s operand #%d is not a name", in.Op, in.Arg)}
			}
		case in.Op > OpReturn:
			return &ValidationError{At: i, Reason: fmt.Sprintf("unknown opcode %d", uint8(in.Op))}
		}
	}
	return nil
}
