package ast

import (
	"bobbin/internal/source"
)

// Script is the root of a parsed file.
type Script struct {
	Statements []Stmt
	// NodeCount is the number of NodeIDs handed out while parsing.
	NodeCount uint32
}

// Stmt is one statement. The set of implementations is closed.
type Stmt interface {
	stmtNode()
	Pos() source.Span
}

// Block is an indented statement list.
type Block struct {
	Statements []Stmt
	Span       source.Span
}

// Line is a printable dialogue line.
type Line struct {
	Parts []TextPart
	Span  source.Span
}

// ChoiceSet is a run of adjacent choice lines at one indentation level.
type ChoiceSet struct {
	Choices []*Choice
	Span    source.Span
}

// Choice is one option offered to the player. Nested runs only after the
// option is picked and forms its own scope.
type Choice struct {
	Parts  []TextPart
	Span   source.Span
	Nested []Stmt
}

// TempDecl declares a block-scoped variable: `temp name = value`.
type TempDecl struct {
	ID    NodeID
	Name  string
	Span  source.Span // span of the name
	Value Expr
}

// SaveDecl declares a persistent variable with a default: `save name = value`.
type SaveDecl struct {
	ID    NodeID
	Name  string
	Span  source.Span
	Value Expr
}

// ExternDecl declares a host-provided variable: `extern name`.
type ExternDecl struct {
	ID   NodeID
	Name string
	Span source.Span
}

// Assignment writes an existing variable: `set name = value`.
type Assignment struct {
	ID    NodeID
	Name  string
	Span  source.Span
	Value Expr
}

// CondBranch is an `if` or `elif` arm.
type CondBranch struct {
	Cond Expr
	Body *Block
	Span source.Span // keyword span
}

// If is an if/elif/else chain. Else is nil when absent.
type If struct {
	Branches []CondBranch
	Else     *Block
	Span     source.Span
}

func (*Line) stmtNode()       {}
func (*ChoiceSet) stmtNode()  {}
func (*TempDecl) stmtNode()   {}
func (*SaveDecl) stmtNode()   {}
func (*ExternDecl) stmtNode() {}
func (*Assignment) stmtNode() {}
func (*If) stmtNode()         {}

func (s *Line) Pos() source.Span       { return s.Span }
func (s *ChoiceSet) Pos() source.Span  { return s.Span }
func (s *TempDecl) Pos() source.Span   { return s.Span }
func (s *SaveDecl) Pos() source.Span   { return s.Span }
func (s *ExternDecl) Pos() source.Span { return s.Span }
func (s *Assignment) Pos() source.Span { return s.Span }
func (s *If) Pos() source.Span         { return s.Span }
