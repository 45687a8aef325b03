package driver

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"bobbin/internal/bytecode"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит скомпилированные чанки по хешу исходника.
// Thread-safe for concurrent access; a nil cache misses every lookup.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what one cache file holds.
type DiskPayload struct {
	Schema  uint16
	Format  uint16 // bytecode.FormatVersion
	Path    string
	Hash    [32]byte
	Encoded []byte // bytecode.Encode output
}

// OpenDiskCache initializes a disk cache under $XDG_CACHE_HOME/app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as is.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key [32]byte) string {
	// подкаталог "chunks", чтобы DropAll не трогал чужие файлы
	return filepath.Join(c.dir, "chunks", hex.EncodeToString(key[:])+".mp")
}

// Put stores the chunk compiled from source with the given hash.
func (c *DiskCache) Put(key [32]byte, path string, chunk *bytecode.Chunk) (err error) {
	if c == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := bytecode.Encode(&buf, chunk); err != nil {
		return err
	}
	payload := DiskPayload{
		Schema:  diskCacheSchemaVersion,
		Format:  bytecode.FormatVersion,
		Path:    path,
		Hash:    key,
		Encoded: buf.Bytes(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get returns the cached chunk for key. Entries written by another schema
// or bytecode format, or for a different hash, count as misses.
func (c *DiskCache) Get(key [32]byte) (*bytecode.Chunk, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var payload DiskPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Format != bytecode.FormatVersion || payload.Hash != key {
		return nil, false, nil
	}
	chunk, err := bytecode.Decode(bytes.NewReader(payload.Encoded))
	if err != nil {
		return nil, false, err
	}
	return chunk, true, nil
}

// DropAll removes every cached chunk.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "chunks"))
}
