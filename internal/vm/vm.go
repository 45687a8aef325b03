// Package vm runs compiled dialogue. Execution stops at pause points: a
// line, a choice set, or the end of the script. The host calls Step or
// SelectAndContinue to move on; the VM keeps its instruction pointer and
// stack between calls.
package vm

import (
	"strings"

	"bobbin/internal/bytecode"
)

// State is the externally visible VM state.
type State uint8

const (
	// StateReady: not started, or resumed and about to run.
	StateReady State = iota
	StateAtLine
	StateAtChoice
	// StateDone is terminal; side effects already applied stay applied.
	StateDone
	// StateFailed is terminal after a runtime error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateAtLine:
		return "line"
	case StateAtChoice:
		return "choice"
	case StateDone:
		return "done"
	default:
		return "failed"
	}
}

// StepKind says why execution paused.
type StepKind uint8

const (
	StepLine StepKind = iota
	StepChoice
	StepDone
)

// StepResult is one unit of host-visible progress.
type StepResult struct {
	Kind    StepKind
	Line    string   // StepLine
	Choices []string // StepChoice, in declaration order
}

// Options configures a VM.
type Options struct {
	Tracer *Tracer
}

// VM is a stack machine over one chunk. It is not safe for concurrent use.
type VM struct {
	chunk   *bytecode.Chunk
	ip      int
	stack   []bytecode.Value
	storage VariableStorage
	host    HostState
	tracer  *Tracer
	state   State
	choices []string
	err     *RuntimeError
}

// New creates a VM positioned at the first instruction.
func New(chunk *bytecode.Chunk, storage VariableStorage, host HostState, opts Options) *VM {
	return &VM{
		chunk:   chunk,
		stack:   make([]bytecode.Value, 0, chunk.MaxSlots+8),
		storage: storage,
		host:    host,
		tracer:  opts.Tracer,
	}
}

// State returns the current state.
func (vm *VM) State() State { return vm.state }

// Err returns the error that stopped the VM, if any.
func (vm *VM) Err() error {
	if vm.err == nil {
		return nil
	}
	return vm.err
}

// Step runs until the next pause point. At a choice it reports the same
// choices again without executing anything; after Done it keeps returning
// Done; after a runtime error it keeps returning that error.
func (vm *VM) Step() (StepResult, error) {
	switch vm.state {
	case StateFailed:
		return StepResult{Kind: StepDone}, vm.err
	case StateDone:
		return StepResult{Kind: StepDone}, nil
	case StateAtChoice:
		return StepResult{Kind: StepChoice, Choices: vm.choices}, nil
	}
	return vm.run()
}

// SelectAndContinue picks choice index at the pending choice set and runs
// the chosen branch up to the next pause point.
func (vm *VM) SelectAndContinue(index int) (StepResult, error) {
	if vm.state == StateFailed {
		return StepResult{Kind: StepDone}, vm.err
	}
	if vm.state != StateAtChoice || vm.ip >= len(vm.chunk.Code) || vm.chunk.Code[vm.ip].Op != bytecode.OpChoiceSet {
		return StepResult{}, &RuntimeError{Kind: NotAtChoice}
	}
	in := vm.chunk.Code[vm.ip]
	if index < 0 || index >= in.Arg {
		// The choice stays pending; the host may pick again.
		return StepResult{}, &RuntimeError{Kind: InvalidChoiceIndex, Index: index, Count: in.Arg, Span: vm.chunk.Spans[vm.ip]}
	}
	vm.ip = in.Targets[index]
	vm.choices = nil
	vm.state = StateReady
	return vm.run()
}

// IsAtEnd reports, without changing any state, whether the next pause will
// be Done. It follows jumps and skips stack pops, and stops at anything
// else; a pending choice always has more content behind it.
func (vm *VM) IsAtEnd() bool {
	if vm.state == StateDone || vm.state == StateFailed {
		return true
	}
	if vm.state == StateAtChoice {
		return false
	}
	ip := vm.ip
	for steps := 0; steps <= len(vm.chunk.Code); steps++ {
		if ip >= len(vm.chunk.Code) {
			return true
		}
		switch in := vm.chunk.Code[ip]; in.Op {
		case bytecode.OpReturn:
			return true
		case bytecode.OpJump:
			ip = in.Arg
		case bytecode.OpPop:
			ip++
		default:
			return false
		}
	}
	// Jump cycle with nothing to show: it would never pause.
	return false
}

func (vm *VM) push(v bytecode.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() bytecode.Value {
	n := len(vm.stack)
	if n == 0 {
		panic("vm: stack underflow: compiler bug")
	}
	v := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return v
}

func (vm *VM) name(arg int) string {
	return vm.chunk.Constants[arg].Str
}

func (vm *VM) fail(err *RuntimeError, ip int) (StepResult, error) {
	err.Span = vm.chunk.Spans[ip]
	vm.err = err
	vm.state = StateFailed
	vm.tracer.TraceError(err)
	return StepResult{Kind: StepDone}, err
}

func (vm *VM) pause(res StepResult) (StepResult, error) {
	switch res.Kind {
	case StepLine:
		vm.state = StateAtLine
	case StepChoice:
		vm.state = StateAtChoice
		vm.choices = res.Choices
	default:
		vm.state = StateDone
	}
	vm.tracer.TracePause(res)
	return res, nil
}

// run is the core execution loop.
func (vm *VM) run() (StepResult, error) {
	code := vm.chunk.Code
	for {
		if vm.ip >= len(code) {
			return vm.pause(StepResult{Kind: StepDone})
		}
		ip := vm.ip
		in := code[ip]
		vm.tracer.TraceInstr(vm.chunk, ip, len(vm.stack))
		vm.ip++

		switch in.Op {
		case bytecode.OpConstant:
			vm.push(vm.chunk.Constants[in.Arg])
		case bytecode.OpGetLocal:
			vm.push(vm.stack[in.Arg])
		case bytecode.OpSetLocal:
			v := vm.pop()
			vm.stack[in.Arg] = v
		case bytecode.OpPop:
			vm.stack = vm.stack[:len(vm.stack)-in.Arg]
		case bytecode.OpConcat:
			start := len(vm.stack) - in.Arg
			var sb strings.Builder
			for _, v := range vm.stack[start:] {
				sb.WriteString(v.Display())
			}
			vm.stack = vm.stack[:start]
			vm.push(bytecode.String(sb.String()))
		case bytecode.OpLine:
			return vm.pause(StepResult{Kind: StepLine, Line: vm.pop().Display()})
		case bytecode.OpChoiceSet:
			choices := make([]string, in.Arg)
			for i := in.Arg - 1; i >= 0; i-- {
				choices[i] = vm.pop().Display()
			}
			// Stay on the dispatch so SelectAndContinue can read its targets.
			vm.ip = ip
			return vm.pause(StepResult{Kind: StepChoice, Choices: choices})
		case bytecode.OpJump:
			vm.ip = in.Arg
		case bytecode.OpJumpIfFalse:
			if !vm.pop().Truthy() {
				vm.ip = in.Arg
			}
		case bytecode.OpInitStorage:
			vm.storage.InitializeIfAbsent(vm.name(in.Arg), vm.pop())
		case bytecode.OpGetStorage:
			name := vm.name(in.Arg)
			v, ok := vm.storage.Get(name)
			if !ok {
				return vm.fail(&RuntimeError{Kind: MissingSaveVariable, Name: name}, ip)
			}
			vm.push(v)
		case bytecode.OpSetStorage:
			vm.storage.Set(vm.name(in.Arg), vm.pop())
		case bytecode.OpGetHost:
			name := vm.name(in.Arg)
			v, ok := vm.host.Lookup(name)
			if !ok {
				return vm.fail(&RuntimeError{Kind: MissingExternVariable, Name: name}, ip)
			}
			vm.push(v)
		case bytecode.OpNot:
			vm.push(bytecode.Bool(!vm.pop().Truthy()))
		case bytecode.OpNegate:
			x := vm.pop()
			if x.Kind != bytecode.KindNumber {
				return vm.fail(mismatch("-", x), ip)
			}
			vm.push(bytecode.Number(-x.Num))
		case bytecode.OpReturn:
			vm.ip = ip
			return vm.pause(StepResult{Kind: StepDone})
		default:
			y := vm.pop()
			x := vm.pop()
			v, err := binary(in.Op, x, y)
			if err != nil {
				return vm.fail(err, ip)
			}
			vm.push(v)
		}
	}
}
