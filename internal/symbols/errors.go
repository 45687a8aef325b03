package symbols

import (
	"fmt"

	"bobbin/internal/diag"
	"bobbin/internal/source"
)

// SemanticErrorKind classifies resolution failures.
type SemanticErrorKind uint8

const (
	UndefinedVariable SemanticErrorKind = iota
	Shadowing
	AssignmentToExtern
)

func (k SemanticErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined variable"
	case Shadowing:
		return "shadowing"
	case AssignmentToExtern:
		return "assignment to extern"
	default:
		return "unknown"
	}
}

// SemanticError is one resolution problem. Original is set for Shadowing
// and points at the earlier declaration.
type SemanticError struct {
	Kind     SemanticErrorKind
	Name     string
	Span     source.Span
	Original source.Span
}

func (e *SemanticError) Error() string {
	switch e.Kind {
	case UndefinedVariable:
		return fmt.Sprintf("undefined variable '%s' at %s", e.Name, e.Span)
	case Shadowing:
		return fmt.Sprintf("variable '%s' at %s shadows declaration at %s", e.Name, e.Span, e.Original)
	default:
		return fmt.Sprintf("cannot assign to extern variable '%s' at %s", e.Name, e.Span)
	}
}

// Diagnostic converts the error; undefined names get a "did you mean?"
// suggestion when ctx knows a close enough variable.
func (e *SemanticError) Diagnostic(ctx *diag.Context) diag.Diagnostic {
	switch e.Kind {
	case UndefinedVariable:
		d := diag.NewError(fmt.Sprintf("undefined variable '%s'", e.Name), e.Span, "not defined in this scope")
		if similar, ok := ctx.FindSimilarVariable(e.Name); ok {
			d = d.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar), e.Span, similar)
		}
		return d
	case Shadowing:
		return diag.NewError(fmt.Sprintf("variable '%s' shadows previous declaration", e.Name), e.Span, "shadows previous declaration").
			WithSecondary(e.Original, "previously declared here").
			WithNote("Bobbin does not allow shadowing to prevent confusion in dialogue scripts")
	default:
		return diag.NewError(fmt.Sprintf("cannot assign to extern variable '%s'", e.Name), e.Span, "extern variables are read-only").
			WithNote("Extern variables are provided by the host game and cannot be modified by scripts").
			WithNote("Use 'save' or 'temp' to declare a mutable variable instead")
	}
}

// AnalysisError is returned when resolution fails. KnownVariables lists
// every name visible at the end of analysis, sorted, for suggestions.
type AnalysisError struct {
	Errors         []*SemanticError
	KnownVariables []string
}

func (e *AnalysisError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

// Context builds the conversion context for these errors.
func (e *AnalysisError) Context(m diag.Matcher) *diag.Context {
	return &diag.Context{KnownVariables: e.KnownVariables, Matcher: m}
}

// Diagnostics converts every error with a shared context.
func (e *AnalysisError) Diagnostics(m diag.Matcher) []diag.Diagnostic {
	return diag.Convert(e.Errors, e.Context(m))
}
