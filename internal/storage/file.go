package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"bobbin/internal/bytecode"
)

// Current schema version - increment when saveFile format changes
const saveSchemaVersion uint16 = 1

// ErrSaveSchema is returned by Load for a save written by another version.
var ErrSaveSchema = errors.New("unsupported save file schema")

type saveFile struct {
	Schema uint16                    `msgpack:"schema"`
	Vars   map[string]bytecode.Value `msgpack:"vars"`
}

// File is a Memory persisted to a msgpack save file. Variables live in
// memory while a dialogue runs; Save writes them out atomically.
type File struct {
	*Memory
	path string
	mu   sync.Mutex // serializes Save/Load
}

// OpenFile loads path if it exists, or starts empty.
func OpenFile(path string) (*File, error) {
	f := &File{Memory: NewMemory(), path: path}
	if err := f.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return f, nil
}

// Path returns the save file location.
func (f *File) Path() string { return f.path }

// Load replaces the in-memory variables with the file contents.
func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer fh.Close()

	var sf saveFile
	if err := msgpack.NewDecoder(fh).Decode(&sf); err != nil {
		return fmt.Errorf("read save %s: %w", f.path, err)
	}
	if sf.Schema != saveSchemaVersion {
		return fmt.Errorf("%s: %w %d", f.path, ErrSaveSchema, sf.Schema)
	}
	f.Memory.Replace(sf.Vars)
	return nil
}

// Save writes all variables to the save file.
func (f *File) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".save-*")
	if err != nil {
		return err
	}
	// после успешного Rename удалять уже нечего
	defer os.Remove(tmp.Name())

	sf := saveFile{Schema: saveSchemaVersion, Vars: f.Memory.Snapshot()}
	if err := msgpack.NewEncoder(tmp).Encode(&sf); err != nil {
		tmp.Close()
		return fmt.Errorf("write save %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp.Name(), f.path)
}
