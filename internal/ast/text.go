package ast

import "bobbin/internal/source"

// TextPart is a piece of a dialogue or choice line.
type TextPart interface {
	textPart()
	Pos() source.Span
}

// Literal is verbatim text with escapes decoded.
type Literal struct {
	Text string
	Span source.Span
}

// VarRef is a `{name}` interpolation.
type VarRef struct {
	ID   NodeID
	Name string
	Span source.Span
}

func (*Literal) textPart() {}
func (*VarRef) textPart()  {}

func (p *Literal) Pos() source.Span { return p.Span }
func (p *VarRef) Pos() source.Span  { return p.Span }
