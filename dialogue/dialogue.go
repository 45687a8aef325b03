// Package dialogue is the public entry point for embedding Bobbin: compile
// a script, drive it line by line and choice by choice, and validate
// scripts for editor tooling.
//
// A Runtime is not safe for concurrent use; guard it externally when the
// host drives it from several goroutines. Storage and host state may be
// shared freely since their implementations lock on their own.
package dialogue

import (
	"errors"

	"bobbin/internal/bytecode"
	"bobbin/internal/compiler"
	"bobbin/internal/diag"
	"bobbin/internal/lexer"
	"bobbin/internal/parser"
	"bobbin/internal/similar"
	"bobbin/internal/symbols"
	"bobbin/internal/vm"
)

type (
	Value           = bytecode.Value
	VariableStorage = vm.VariableStorage
	HostState       = vm.HostState
	Diagnostic      = diag.Diagnostic
	Chunk           = bytecode.Chunk
)

// Runtime runs one dialogue.
type Runtime struct {
	vm      *vm.VM
	line    string
	choices []string
	waiting bool
}

// Option tweaks New.
type Option func(*vm.Options)

// WithTracer writes every executed instruction to t.
func WithTracer(t *vm.Tracer) Option {
	return func(o *vm.Options) { o.Tracer = t }
}

// Compile runs scan, parse, resolve and compile.
func Compile(src string) (*bytecode.Chunk, error) {
	script, perrs := parser.Parse(lexer.Scan(src))
	if perrs != nil {
		return nil, &Error{Phase: PhaseParse, Parse: perrs}
	}
	table, serr := symbols.Analyze(script)
	if serr != nil {
		return nil, &Error{Phase: PhaseSemantic, Semantic: serr}
	}
	chunk, err := compiler.Compile(script, table)
	if err != nil {
		var ce *compiler.CompileError
		if !errors.As(err, &ce) {
			ce = &compiler.CompileError{Message: err.Error()}
		}
		return nil, &Error{Phase: PhaseCompile, Compile: ce}
	}
	return chunk, nil
}

// New compiles src and steps once, so the first line or choice set is
// available right away.
func New(src string, storage VariableStorage, host HostState, opts ...Option) (*Runtime, error) {
	chunk, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return NewFromChunk(chunk, storage, host, opts...)
}

// NewFromChunk starts a runtime on already compiled bytecode, e.g. a chunk
// loaded from the cache.
func NewFromChunk(chunk *bytecode.Chunk, storage VariableStorage, host HostState, opts ...Option) (*Runtime, error) {
	var o vm.Options
	for _, opt := range opts {
		opt(&o)
	}
	r := &Runtime{vm: vm.New(chunk, storage, host, o)}
	if err := r.apply(r.vm.Step()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runtime) apply(res vm.StepResult, err error) error {
	if err != nil {
		var re *vm.RuntimeError
		if !errors.As(err, &re) {
			return err
		}
		// usage errors leave the current pause as it was
		if re.Kind != vm.InvalidChoiceIndex && re.Kind != vm.NotAtChoice {
			r.line, r.choices, r.waiting = "", nil, false
		}
		return &Error{Phase: PhaseRuntime, Runtime: re}
	}
	switch res.Kind {
	case vm.StepLine:
		r.line, r.choices, r.waiting = res.Line, nil, false
	case vm.StepChoice:
		r.line, r.choices, r.waiting = "", res.Choices, true
	default:
		r.line, r.choices, r.waiting = "", nil, false
	}
	return nil
}

// Advance moves past the current line. It does nothing once the dialogue
// has ended or while a choice is pending.
func (r *Runtime) Advance() error {
	if r.waiting || r.vm.State() == vm.StateDone {
		return nil
	}
	return r.apply(r.vm.Step())
}

// CurrentLine returns the line the dialogue is paused at, or "".
func (r *Runtime) CurrentLine() string { return r.line }

// CurrentChoices returns the pending choice texts, or nil.
func (r *Runtime) CurrentChoices() []string { return r.choices }

// HasMore reports whether anything follows the current pause.
func (r *Runtime) HasMore() bool { return !r.vm.IsAtEnd() }

// IsWaitingForChoice reports whether SelectChoice must be called next.
func (r *Runtime) IsWaitingForChoice() bool { return r.waiting }

// SelectChoice picks a pending choice by its 0-based index and runs up to
// the next pause.
func (r *Runtime) SelectChoice(index int) error {
	return r.apply(r.vm.SelectAndContinue(index))
}

// Validate runs scan, parse and resolve and returns every diagnostic. An
// empty result means the script is clean. Nothing is compiled or run.
func Validate(src string) []Diagnostic {
	return ValidateWith(src, similar.Default())
}

// ValidateWith is Validate with a custom suggestion matcher.
func ValidateWith(src string, m diag.Matcher) []Diagnostic {
	script, perrs := parser.Parse(lexer.Scan(src))
	if perrs != nil {
		return diag.Convert(perrs, &diag.Context{Matcher: m})
	}
	if _, serr := symbols.Analyze(script); serr != nil {
		return serr.Diagnostics(m)
	}
	return nil
}
