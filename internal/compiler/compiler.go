// Package compiler lowers a resolved script to bytecode.
//
// Stack discipline: between statements the VM stack holds exactly the live
// temps, temp slot N at stack index N. A temp declaration leaves its
// initializer on the stack as the new slot; every nested block pops its own
// temps before control leaves it.
package compiler

import (
	"fmt"

	"bobbin/internal/ast"
	"bobbin/internal/bytecode"
	"bobbin/internal/source"
	"bobbin/internal/symbols"
)

type compiler struct {
	chunk *bytecode.Chunk
	table *symbols.SymbolTable
	live  int // temps currently on the stack
	err   *CompileError
}

// Compile lowers script using the bindings in table. The returned chunk has
// passed Validate.
func Compile(script *ast.Script, table *symbols.SymbolTable) (*bytecode.Chunk, error) {
	c := &compiler{
		chunk: &bytecode.Chunk{MaxSlots: table.MaxSlots},
		table: table,
	}
	c.stmts(script.Statements)
	end := source.Span{}
	if n := len(script.Statements); n > 0 {
		sp := script.Statements[n-1].Pos()
		end = source.Span{Start: sp.End, End: sp.End}
	}
	c.emit(bytecode.OpReturn, 0, end)
	if c.err != nil {
		return nil, c.err
	}
	if err := c.chunk.Validate(); err != nil {
		return nil, &CompileError{Message: err.Error(), Span: end}
	}
	return c.chunk, nil
}

func (c *compiler) fail(sp source.Span, format string, args ...any) {
	if c.err == nil {
		c.err = &CompileError{Message: fmt.Sprintf(format, args...), Span: sp}
	}
}

func (c *compiler) emit(op bytecode.Opcode, arg int, sp source.Span) int {
	return c.chunk.Emit(bytecode.Instruction{Op: op, Arg: arg}, sp)
}

// emitJump emits a jump with a placeholder target, to be patched later.
func (c *compiler) emitJump(op bytecode.Opcode, sp source.Span) int {
	return c.emit(op, -1, sp)
}

// patch points the jump at addr to the next instruction.
func (c *compiler) patch(addr int) {
	c.chunk.Code[addr].Arg = len(c.chunk.Code)
}

func (c *compiler) constant(v bytecode.Value, sp source.Span) {
	c.emit(bytecode.OpConstant, c.chunk.AddConstant(v), sp)
}

func (c *compiler) name(op bytecode.Opcode, name string, sp source.Span) {
	c.emit(op, c.chunk.AddConstant(bytecode.String(name)), sp)
}

func (c *compiler) stmts(list []ast.Stmt) {
	for _, st := range list {
		c.stmt(st)
	}
}

// block compiles a nested block and drops the temps it declared.
func (c *compiler) block(list []ast.Stmt, sp source.Span) {
	base := c.live
	c.stmts(list)
	if k := c.live - base; k > 0 {
		c.emit(bytecode.OpPop, k, sp)
	}
	c.live = base
}

func (c *compiler) stmt(st ast.Stmt) {
	switch st := st.(type) {
	case *ast.Line:
		c.text(st.Parts, st.Span)
		c.emit(bytecode.OpLine, 0, st.Span)
	case *ast.ChoiceSet:
		c.choiceSet(st)
	case *ast.TempDecl:
		slot, ok := c.table.Bindings[st.ID]
		if !ok {
			c.fail(st.Span, "temp '%s' has no slot", st.Name)
			return
		}
		if slot != c.live {
			c.fail(st.Span, "temp '%s' bound to slot %d but %d temps are live", st.Name, slot, c.live)
			return
		}
		c.expr(st.Value)
		c.live++
	case *ast.SaveDecl:
		c.expr(st.Value)
		c.name(bytecode.OpInitStorage, st.Name, st.Span)
	case *ast.ExternDecl:
		// Nothing to run: the host owns the value.
	case *ast.Assignment:
		c.expr(st.Value)
		b, ok := c.table.Lookup(st.ID)
		switch {
		case !ok:
			c.fail(st.Span, "assignment to '%s' is unresolved", st.Name)
		case b.Kind == symbols.BindLocal:
			c.emit(bytecode.OpSetLocal, b.Slot, st.Span)
		case b.Kind == symbols.BindSave:
			c.name(bytecode.OpSetStorage, b.Name, st.Span)
		default:
			c.fail(st.Span, "assignment to extern '%s'", st.Name)
		}
	case *ast.If:
		c.ifStmt(st)
	default:
		c.fail(st.Pos(), "unsupported statement %T", st)
	}
}

// text pushes the parts of a line and joins them into one value.
func (c *compiler) text(parts []ast.TextPart, sp source.Span) {
	if len(parts) == 0 {
		c.constant(bytecode.String(""), sp)
		return
	}
	for _, p := range parts {
		switch p := p.(type) {
		case *ast.Literal:
			c.constant(bytecode.String(p.Text), p.Span)
		case *ast.VarRef:
			c.load(p.ID, p.Name, p.Span)
		}
	}
	if len(parts) > 1 {
		c.emit(bytecode.OpConcat, len(parts), sp)
	}
}

// choiceSet lowers to: texts, CHOICE_SET with one target per branch, then
// each branch followed by a jump past the last one.
func (c *compiler) choiceSet(st *ast.ChoiceSet) {
	for _, ch := range st.Choices {
		c.text(ch.Parts, ch.Span)
	}
	dispatch := c.chunk.Emit(bytecode.Instruction{
		Op:      bytecode.OpChoiceSet,
		Arg:     len(st.Choices),
		Targets: make([]int, len(st.Choices)),
	}, st.Span)

	exits := make([]int, 0, len(st.Choices))
	for i, ch := range st.Choices {
		c.chunk.Code[dispatch].Targets[i] = len(c.chunk.Code)
		c.block(ch.Nested, ch.Span)
		exits = append(exits, c.emitJump(bytecode.OpJump, ch.Span))
	}
	for _, j := range exits {
		c.patch(j)
	}
}

// ifStmt lowers each arm to `cond; JUMP_IF_FALSE next; body; JUMP end`.
func (c *compiler) ifStmt(st *ast.If) {
	var exits []int
	for _, br := range st.Branches {
		c.expr(br.Cond)
		next := c.emitJump(bytecode.OpJumpIfFalse, br.Span)
		c.block(br.Body.Statements, br.Body.Span)
		exits = append(exits, c.emitJump(bytecode.OpJump, br.Span))
		c.patch(next)
	}
	if st.Else != nil {
		c.block(st.Else.Statements, st.Else.Span)
	}
	for _, j := range exits {
		c.patch(j)
	}
}

func (c *compiler) load(id ast.NodeID, name string, sp source.Span) {
	b, ok := c.table.Lookup(id)
	if !ok {
		c.fail(sp, "reference to '%s' is unresolved", name)
		return
	}
	switch b.Kind {
	case symbols.BindLocal:
		if b.Slot >= c.live {
			c.fail(sp, "'%s' reads slot %d but only %d temps are live", name, b.Slot, c.live)
			return
		}
		c.emit(bytecode.OpGetLocal, b.Slot, sp)
	case symbols.BindSave:
		c.name(bytecode.OpGetStorage, b.Name, sp)
	case symbols.BindExtern:
		c.name(bytecode.OpGetHost, b.Name, sp)
	}
}
