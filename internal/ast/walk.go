package ast

// Inspect walks statements depth-first in source order, calling fn for each
// statement before its children. Returning false skips the children.
func Inspect(stmts []Stmt, fn func(Stmt) bool) {
	for _, s := range stmts {
		if !fn(s) {
			continue
		}
		switch s := s.(type) {
		case *ChoiceSet:
			for _, c := range s.Choices {
				Inspect(c.Nested, fn)
			}
		case *If:
			for _, b := range s.Branches {
				Inspect(b.Body.Statements, fn)
			}
			if s.Else != nil {
				Inspect(s.Else.Statements, fn)
			}
		}
	}
}

// Refs returns the identities of all variable references in an expression.
func Refs(e Expr) []NodeID {
	var out []NodeID
	var walk func(Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case *VarExpr:
			out = append(out, e.ID)
		case *UnaryExpr:
			walk(e.X)
		case *BinaryExpr:
			walk(e.X)
			walk(e.Y)
		}
	}
	walk(e)
	return out
}
