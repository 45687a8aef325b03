// Package storage provides the VariableStorage and HostState
// implementations used by the CLI and tests: an in-memory store, a
// msgpack-backed save file and host state read from TOML.
package storage

import (
	"maps"
	"slices"
	"sync"

	"bobbin/internal/bytecode"
	"bobbin/internal/vm"
)

// Memory is a thread-safe in-memory VariableStorage.
type Memory struct {
	mu   sync.RWMutex
	vars map[string]bytecode.Value
}

var _ vm.VariableStorage = (*Memory)(nil)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{vars: make(map[string]bytecode.Value)}
}

func (m *Memory) Get(name string) (bytecode.Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[name]
	return v, ok
}

func (m *Memory) Set(name string, v bytecode.Value) {
	m.mu.Lock()
	m.vars[name] = v
	m.mu.Unlock()
}

// InitializeIfAbsent checks and stores under one lock, so a concurrent Set
// from the host is never overwritten by a default.
func (m *Memory) InitializeIfAbsent(name string, v bytecode.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vars[name]; !ok {
		m.vars[name] = v
	}
}

func (m *Memory) Contains(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vars[name]
	return ok
}

// Delete removes name; the next read of it is a runtime error.
func (m *Memory) Delete(name string) {
	m.mu.Lock()
	delete(m.vars, name)
	m.mu.Unlock()
}

// Names returns the stored names in sorted order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.vars))
}

// Snapshot returns a copy of all variables.
func (m *Memory) Snapshot() map[string]bytecode.Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.vars)
}

// Replace swaps the whole variable set for a copy of vars.
func (m *Memory) Replace(vars map[string]bytecode.Value) {
	cp := maps.Clone(vars)
	if cp == nil {
		cp = make(map[string]bytecode.Value)
	}
	m.mu.Lock()
	m.vars = cp
	m.mu.Unlock()
}
