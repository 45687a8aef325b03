package vm

import (
	"fmt"
	"strings"

	"bobbin/internal/diag"
	"bobbin/internal/source"
)

// ErrorKind identifies a runtime failure.
type ErrorKind uint8

const (
	NotAtChoice ErrorKind = iota + 1
	InvalidChoiceIndex
	MissingSaveVariable
	MissingExternVariable
	TypeMismatch
	DivisionByZero
)

// Stable codes - do not change values.
var errorCodes = [...]string{
	NotAtChoice:           "VM2001",
	InvalidChoiceIndex:    "VM2002",
	MissingSaveVariable:   "VM2003",
	MissingExternVariable: "VM2004",
	TypeMismatch:          "VM2005",
	DivisionByZero:        "VM2006",
}

// Code returns the stable "VM2001" style code.
func (k ErrorKind) Code() string {
	if int(k) < len(errorCodes) && errorCodes[k] != "" {
		return errorCodes[k]
	}
	return "VM2999"
}

// RuntimeError stops a dialogue. Fields beyond Kind are set per kind: Index
// and Count for InvalidChoiceIndex, Name for the missing-variable kinds, Op
// and Operands for TypeMismatch. Span is where execution stopped; it is
// informational and never becomes a diagnostic label.
type RuntimeError struct {
	Kind     ErrorKind
	Index    int
	Count    int
	Name     string
	Op       string
	Operands []string
	Span     source.Span
}

func (e *RuntimeError) Error() string {
	switch e.Kind {
	case NotAtChoice:
		return "SelectAndContinue called but VM is not waiting for a choice"
	case InvalidChoiceIndex:
		return fmt.Sprintf("choice index %d out of bounds (only %d choices)", e.Index, e.Count)
	case MissingSaveVariable:
		return fmt.Sprintf("save variable '%s' not found in storage", e.Name)
	case MissingExternVariable:
		return fmt.Sprintf("extern variable '%s' not found in host state", e.Name)
	case TypeMismatch:
		return fmt.Sprintf("cannot apply '%s' to %s", e.Op, strings.Join(e.Operands, " and "))
	case DivisionByZero:
		return "division by zero"
	default:
		return "unknown runtime error"
	}
}

// Diagnostic converts the error. Runtime diagnostics carry no labels: the
// failure belongs to execution, not to a place in the text.
func (e *RuntimeError) Diagnostic(*diag.Context) diag.Diagnostic {
	d := diag.Diagnostic{Severity: diag.SevError, Message: e.Error()}
	switch e.Kind {
	case NotAtChoice:
		d = d.WithNote("This is an API usage error - check your game logic")
	case InvalidChoiceIndex:
		d.Message = fmt.Sprintf("choice index %d out of bounds (only %d choices available)", e.Index, e.Count)
		d = d.WithNote("Check that the choice index is within the valid range")
	case MissingSaveVariable:
		d = d.WithNote("This may indicate corrupted or cleared save data").
			WithNote("Ensure the variable was declared with 'save' before use")
	case MissingExternVariable:
		d = d.WithNote("The host game must provide this variable before running the script").
			WithNote("Check that your game's HostState implementation returns a value for this variable")
	case TypeMismatch:
		d = d.WithNote("Arithmetic and ordering need numbers; '+' also joins two strings")
	case DivisionByZero:
		d = d.WithNote("Check the divisor with an 'if' before dividing")
	}
	return d
}
