package dialogue

import (
	"fmt"
	"strings"

	"bobbin/internal/compiler"
	"bobbin/internal/diag"
	"bobbin/internal/parser"
	"bobbin/internal/similar"
	"bobbin/internal/symbols"
	"bobbin/internal/vm"
)

// Phase says which part of the pipeline produced an Error.
type Phase uint8

const (
	PhaseParse Phase = iota + 1
	PhaseSemantic
	PhaseCompile
	PhaseRuntime
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseSemantic:
		return "semantic"
	case PhaseCompile:
		return "compile"
	case PhaseRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by the public API. Exactly one
// of the phase fields is set, matching Phase. Parse and semantic errors are
// lists so one attempt can report every problem.
type Error struct {
	Phase    Phase
	Parse    []*parser.ParseError
	Semantic *symbols.AnalysisError
	Compile  *compiler.CompileError
	Runtime  *vm.RuntimeError

	// Matcher drives "did you mean?" suggestions; nil uses the default
	// Jaro-Winkler matcher.
	Matcher diag.Matcher
}

func (e *Error) Error() string {
	switch e.Phase {
	case PhaseParse:
		return joinErrors("parse", e.Parse)
	case PhaseSemantic:
		if e.Semantic == nil {
			return "semantic error"
		}
		return e.Semantic.Error()
	case PhaseCompile:
		return e.Compile.Error()
	case PhaseRuntime:
		return e.Runtime.Error()
	default:
		return "no error"
	}
}

// Unwrap exposes the underlying typed errors to errors.As.
func (e *Error) Unwrap() []error {
	switch e.Phase {
	case PhaseParse:
		out := make([]error, len(e.Parse))
		for i, pe := range e.Parse {
			out[i] = pe
		}
		return out
	case PhaseSemantic:
		if e.Semantic != nil {
			return []error{e.Semantic}
		}
	case PhaseCompile:
		return []error{e.Compile}
	case PhaseRuntime:
		return []error{e.Runtime}
	}
	return nil
}

func (e *Error) matcher() diag.Matcher {
	if e.Matcher != nil {
		return e.Matcher
	}
	return similar.Default()
}

// Diagnostics converts the error without modifying it. The result is a
// fresh slice; e stays usable for logging afterwards.
func (e *Error) Diagnostics() []diag.Diagnostic {
	switch e.Phase {
	case PhaseParse:
		return diag.Convert(e.Parse, &diag.Context{Matcher: e.matcher()})
	case PhaseSemantic:
		if e.Semantic == nil {
			return nil
		}
		return e.Semantic.Diagnostics(e.matcher())
	case PhaseCompile:
		return []diag.Diagnostic{e.Compile.Diagnostic(nil)}
	case PhaseRuntime:
		return []diag.Diagnostic{e.Runtime.Diagnostic(nil)}
	}
	return nil
}

// IntoDiagnostics converts the error and releases everything it held; the
// error lists move into the result instead of being retained. After the
// call e is empty and Diagnostics returns nil.
func (e *Error) IntoDiagnostics() []diag.Diagnostic {
	ds := e.Diagnostics()
	*e = Error{}
	return ds
}

func joinErrors[E error](phase string, errs []E) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s errors", len(errs), phase)
	for _, err := range errs {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}
