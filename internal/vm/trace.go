package vm

import (
	"fmt"
	"io"
	"strings"

	"bobbin/internal/bytecode"
)

// Tracer outputs execution traces for debugging. A nil *Tracer is valid
// and traces nothing.
type Tracer struct {
	w io.Writer
}

// NewTracer creates a new tracer that writes to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// TraceInstr traces execution of an instruction.
// Format: [ip=NNNN] <instr> depth=<stack>
func (t *Tracer) TraceInstr(c *bytecode.Chunk, ip, depth int) {
	if t == nil || t.w == nil {
		return
	}
	fmt.Fprintf(t.w, "[ip=%04d] %s depth=%d\n", ip, c.FormatInstr(ip), depth)
}

// TracePause records where the VM handed control back to the host.
func (t *Tracer) TracePause(res StepResult) {
	if t == nil || t.w == nil {
		return
	}
	switch res.Kind {
	case StepLine:
		fmt.Fprintf(t.w, "[pause] line %q\n", res.Line)
	case StepChoice:
		fmt.Fprintf(t.w, "[pause] choice [%s]\n", strings.Join(res.Choices, " | "))
	default:
		fmt.Fprintf(t.w, "[pause] done\n")
	}
}

// TraceError records a runtime failure.
func (t *Tracer) TraceError(err *RuntimeError) {
	if t == nil || t.w == nil {
		return
	}
	fmt.Fprintf(t.w, "[error] %s: %s\n", err.Kind.Code(), err.Error())
}
