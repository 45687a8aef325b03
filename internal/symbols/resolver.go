package symbols

import (
	"sort"

	"bobbin/internal/ast"
	"bobbin/internal/source"
)

// Resolver binds every declaration and reference of one script. Temps live
// in a stack of scopes, scope 0 being the file scope; save and extern names
// are file-global and live beside the stack.
type Resolver struct {
	scopes   []scope
	saves    map[string]source.Span
	externs  map[string]source.Span
	nextSlot int
	table    *SymbolTable
	errs     []*SemanticError
}

// NewResolver creates a resolver with only the file scope open.
func NewResolver() *Resolver {
	return &Resolver{
		scopes:  []scope{newScope(0)},
		saves:   make(map[string]source.Span),
		externs: make(map[string]source.Span),
		table:   NewSymbolTable(),
	}
}

// Analyze resolves script. Resolution does not stop at the first problem;
// on failure every error is returned together with the known names.
func Analyze(script *ast.Script) (*SymbolTable, *AnalysisError) {
	return NewResolver().Analyze(script)
}

// Analyze runs the resolver over script. A Resolver is single use.
func (r *Resolver) Analyze(script *ast.Script) (*SymbolTable, *AnalysisError) {
	r.resolveStmts(script.Statements)
	if len(r.errs) == 0 {
		return r.table, nil
	}
	return nil, &AnalysisError{Errors: r.errs, KnownVariables: r.knownVariables()}
}

// knownVariables собирает имена из всех открытых областей и глобальных пространств.
func (r *Resolver) knownVariables() []string {
	seen := make(map[string]struct{})
	for _, sc := range r.scopes {
		for name := range sc.vars {
			seen[name] = struct{}{}
		}
	}
	for name := range r.saves {
		seen[name] = struct{}{}
	}
	for name := range r.externs {
		seen[name] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, st := range stmts {
		r.resolveStmt(st)
	}
}

func (r *Resolver) resolveStmt(st ast.Stmt) {
	switch st := st.(type) {
	case *ast.TempDecl:
		r.resolveExpr(st.Value)
		r.declareTemp(st.ID, st.Name, st.Span)
	case *ast.SaveDecl:
		r.resolveExpr(st.Value)
		r.declareSave(st.ID, st.Name, st.Span)
	case *ast.ExternDecl:
		r.declareExtern(st.Name, st.Span)
	case *ast.Assignment:
		r.resolveExpr(st.Value)
		r.resolveReference(st.ID, st.Name, st.Span, true)
	case *ast.Line:
		r.resolveParts(st.Parts)
	case *ast.ChoiceSet:
		// Choice texts are evaluated before any branch runs.
		for _, ch := range st.Choices {
			r.resolveParts(ch.Parts)
		}
		for _, ch := range st.Choices {
			r.resolveBlock(ch.Nested)
		}
	case *ast.If:
		for _, br := range st.Branches {
			r.resolveExpr(br.Cond)
			r.resolveBlock(br.Body.Statements)
		}
		if st.Else != nil {
			r.resolveBlock(st.Else.Statements)
		}
	}
}

// resolveBlock resolves a nested block in its own scope; its slots are
// handed back when the block closes so siblings can reuse them.
func (r *Resolver) resolveBlock(stmts []ast.Stmt) {
	r.pushScope()
	r.resolveStmts(stmts)
	r.popScope()
}

func (r *Resolver) resolveParts(parts []ast.TextPart) {
	for _, p := range parts {
		if ref, ok := p.(*ast.VarRef); ok {
			r.resolveReference(ref.ID, ref.Name, ref.Span, false)
		}
	}
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.VarExpr:
		r.resolveReference(e.ID, e.Name, e.Span, false)
	case *ast.UnaryExpr:
		r.resolveExpr(e.X)
	case *ast.BinaryExpr:
		r.resolveExpr(e.X)
		r.resolveExpr(e.Y)
	}
}

func (r *Resolver) pushScope() {
	r.scopes = append(r.scopes, newScope(r.nextSlot))
}

func (r *Resolver) popScope() {
	if len(r.scopes) <= 1 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	r.scopes = r.scopes[:len(r.scopes)-1]
	r.nextSlot = top.startSlot
}

func (r *Resolver) shadowing(name string, span, original source.Span) {
	r.errs = append(r.errs, &SemanticError{Kind: Shadowing, Name: name, Span: span, Original: original})
}

// globalConflict ищет имя среди save и extern переменных.
func (r *Resolver) globalConflict(name string) (source.Span, bool) {
	if sp, ok := r.saves[name]; ok {
		return sp, true
	}
	if sp, ok := r.externs[name]; ok {
		return sp, true
	}
	return source.Span{}, false
}

// tempConflict searches scopes[from:to] innermost first.
func (r *Resolver) tempConflict(name string, from, to int) (source.Span, bool) {
	for i := to - 1; i >= from; i-- {
		if v, ok := r.scopes[i].vars[name]; ok {
			return v.span, true
		}
	}
	return source.Span{}, false
}

func (r *Resolver) declareTemp(id ast.NodeID, name string, span source.Span) {
	if orig, ok := r.globalConflict(name); ok {
		r.shadowing(name, span, orig)
		return
	}
	cur := len(r.scopes) - 1
	if orig, ok := r.tempConflict(name, 0, cur); ok {
		r.shadowing(name, span, orig)
		return
	}
	if v, ok := r.scopes[cur].vars[name]; ok {
		r.shadowing(name, span, v.span)
		return
	}
	slot := r.nextSlot
	r.nextSlot++
	if r.nextSlot > r.table.MaxSlots {
		r.table.MaxSlots = r.nextSlot
	}
	r.scopes[cur].vars[name] = varInfo{slot: slot, span: span}
	r.table.Bindings[id] = slot
}

func (r *Resolver) declareSave(id ast.NodeID, name string, span source.Span) {
	if !r.checkGlobalDecl(name, span) {
		return
	}
	r.saves[name] = span
	r.table.SaveBindings[id] = name
}

// declareExtern registers the name only; the declaration node itself gets
// no binding.
func (r *Resolver) declareExtern(name string, span source.Span) {
	if !r.checkGlobalDecl(name, span) {
		return
	}
	r.externs[name] = span
}

// checkGlobalDecl rejects a save/extern name already used anywhere: as a
// global or as a temp in any open scope.
func (r *Resolver) checkGlobalDecl(name string, span source.Span) bool {
	if orig, ok := r.globalConflict(name); ok {
		r.shadowing(name, span, orig)
		return false
	}
	if orig, ok := r.tempConflict(name, 0, len(r.scopes)); ok {
		r.shadowing(name, span, orig)
		return false
	}
	return true
}

// resolveReference looks name up in temp scopes innermost first, then save,
// then extern. Writes to an extern are rejected.
func (r *Resolver) resolveReference(id ast.NodeID, name string, span source.Span, forWrite bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if v, ok := r.scopes[i].vars[name]; ok {
			r.table.Bindings[id] = v.slot
			return
		}
	}
	if _, ok := r.saves[name]; ok {
		r.table.SaveBindings[id] = name
		return
	}
	if _, ok := r.externs[name]; ok {
		if forWrite {
			r.errs = append(r.errs, &SemanticError{Kind: AssignmentToExtern, Name: name, Span: span})
			return
		}
		r.table.ExternBindings[id] = name
		return
	}
	r.errs = append(r.errs, &SemanticError{Kind: UndefinedVariable, Name: name, Span: span})
}
