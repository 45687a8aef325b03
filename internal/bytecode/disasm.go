package bytecode

import (
	"fmt"
	"io"
	"strings"
)

// Disassemble writes a human-readable listing of c to w.
func Disassemble(w io.Writer, c *Chunk) error {
	if _, err := fmt.Fprintf(w, "== constants (%d) ==\n", len(c.Constants)); err != nil {
		return err
	}
	for i, v := range c.Constants {
		if _, err := fmt.Fprintf(w, "  #%-3d %s\n", i, v); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "== code (%d) ==\n", len(c.Code)); err != nil {
		return err
	}
	for i := range c.Code {
		if _, err := fmt.Fprintf(w, "%04d  %s\n", i, c.FormatInstr(i)); err != nil {
			return err
		}
	}
	return nil
}

// FormatInstr renders instruction ip with its operands resolved.
func (c *Chunk) FormatInstr(ip int) string {
	in := c.Code[ip]
	name := fmt.Sprintf("%-14s", in.Op)
	switch {
	case in.Op.UsesConstant():
		if in.Arg >= 0 && in.Arg < len(c.Constants) {
			return fmt.Sprintf("%s #%d %s", name, in.Arg, c.Constants[in.Arg])
		}
		return fmt.Sprintf("%s #%d <bad>", name, in.Arg)
	case in.Op == OpChoiceSet:
		ts := make([]string, len(in.Targets))
		for i, t := range in.Targets {
			ts[i] = fmt.Sprintf("%04d", t)
		}
		return fmt.Sprintf("%s %d -> [%s]", name, in.Arg, strings.Join(ts, " "))
	case in.Op.IsJump():
		return fmt.Sprintf("%s -> %04d", name, in.Arg)
	case in.Op == OpGetLocal, in.Op == OpSetLocal, in.Op == OpPop, in.Op == OpConcat:
		return fmt.Sprintf("%s %d", name, in.Arg)
	default:
		return strings.TrimRight(name, " ")
	}
}

// String returns the full listing.
func (c *Chunk) String() string {
	var sb strings.Builder
	_ = Disassemble(&sb, c)
	return sb.String()
}
