package storage

import (
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"

	"bobbin/internal/bytecode"
	"bobbin/internal/vm"
)

// MapHost is a HostState backed by a fixed map. It is read-only once built
// and safe for concurrent use.
type MapHost map[string]bytecode.Value

var _ vm.HostState = MapHost(nil)

func (h MapHost) Lookup(name string) (bytecode.Value, bool) {
	v, ok := h[name]
	return v, ok
}

// Names returns the provided extern names, sorted.
func (h MapHost) Names() []string {
	return slices.Sorted(maps.Keys(h))
}

// LoadHostFile reads a TOML table of scalars:
//
//	player_name = "Ana"
//	level = 3
//	has_key = true
func LoadHostFile(path string) (MapHost, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("host state %s: %w", path, err)
	}
	return hostFromTOML(raw, path)
}

// ParseHost is LoadHostFile for in-memory TOML.
func ParseHost(data string) (MapHost, error) {
	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("host state: %w", err)
	}
	return hostFromTOML(raw, "<input>")
}

func hostFromTOML(raw map[string]any, where string) (MapHost, error) {
	h := make(MapHost, len(raw))
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		v, err := ValueOf(raw[k])
		if err != nil {
			return nil, fmt.Errorf("%s: key %q: %w", where, k, err)
		}
		h[k] = v
	}
	return h, nil
}

// ValueOf converts a decoded TOML or flag scalar to a Value.
func ValueOf(x any) (bytecode.Value, error) {
	switch x := x.(type) {
	case string:
		return bytecode.String(x), nil
	case bool:
		return bytecode.Bool(x), nil
	case int64:
		return bytecode.Number(float64(x)), nil
	case int:
		return bytecode.Number(float64(x)), nil
	case float64:
		return bytecode.Number(x), nil
	default:
		return bytecode.Value{}, fmt.Errorf("unsupported value of type %T (want string, number or bool)", x)
	}
}
