package vm

import "bobbin/internal/bytecode"

// VariableStorage holds save variables. It is shared with the host, which
// may read and write it while a dialogue runs, so implementations do their
// own locking. The VM calls it from one goroutine at a time.
type VariableStorage interface {
	Get(name string) (bytecode.Value, bool)
	// Set overwrites unconditionally.
	Set(name string, v bytecode.Value)
	// InitializeIfAbsent stores v only when name is not present. Calling it
	// again is a no-op.
	InitializeIfAbsent(name string, v bytecode.Value)
	Contains(name string) bool
}

// HostState provides extern variables. A missing name is a runtime error,
// never a default.
type HostState interface {
	Lookup(name string) (bytecode.Value, bool)
}
