package compiler

import (
	"fmt"

	"bobbin/internal/diag"
	"bobbin/internal/source"
)

// CompileError reports a broken invariant between the resolver and the
// compiler. A script that passed analysis should never produce one.
type CompileError struct {
	Message string
	Span    source.Span
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("internal compiler error at %s: %s", e.Span, e.Message)
}

// Diagnostic converts the error for display.
func (e *CompileError) Diagnostic(*diag.Context) diag.Diagnostic {
	return diag.NewError(e.Message, e.Span, "internal compiler error").
		WithNote("This is a bug in the Bobbin compiler, not in your script")
}
