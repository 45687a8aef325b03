package symbols

import "bobbin/internal/ast"

// BindingKind says where a variable lives.
type BindingKind uint8

const (
	BindNone BindingKind = iota
	BindLocal
	BindSave
	BindExtern
)

// Binding is the resolved location of one node.
type Binding struct {
	Kind BindingKind
	Slot int    // BindLocal
	Name string // BindSave, BindExtern
}

// SymbolTable maps declaration and reference nodes to their storage. Each
// node appears in at most one map; extern declarations appear in none.
type SymbolTable struct {
	Bindings       map[ast.NodeID]int
	SaveBindings   map[ast.NodeID]string
	ExternBindings map[ast.NodeID]string
	// MaxSlots is the largest number of temps alive at once.
	MaxSlots int
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Bindings:       make(map[ast.NodeID]int),
		SaveBindings:   make(map[ast.NodeID]string),
		ExternBindings: make(map[ast.NodeID]string),
	}
}

// Lookup returns the binding recorded for id.
func (t *SymbolTable) Lookup(id ast.NodeID) (Binding, bool) {
	if slot, ok := t.Bindings[id]; ok {
		return Binding{Kind: BindLocal, Slot: slot}, true
	}
	if name, ok := t.SaveBindings[id]; ok {
		return Binding{Kind: BindSave, Name: name}, true
	}
	if name, ok := t.ExternBindings[id]; ok {
		return Binding{Kind: BindExtern, Name: name}, true
	}
	return Binding{}, false
}

// Len reports the number of bound nodes.
func (t *SymbolTable) Len() int {
	return len(t.Bindings) + len(t.SaveBindings) + len(t.ExternBindings)
}
