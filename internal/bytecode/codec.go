package bytecode

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// FormatVersion is bumped whenever the encoded layout changes.
const FormatVersion uint16 = 1

const magic = "BOBC"

// ErrBadFormat is returned when the input is not an encoded chunk of this
// format version.
var ErrBadFormat = errors.New("not a bobbin chunk")

type envelope struct {
	Magic   string `msgpack:"magic"`
	Version uint16 `msgpack:"version"`
	Chunk   *Chunk `msgpack:"chunk"`
}

// Encode writes c to w as msgpack.
func Encode(w io.Writer, c *Chunk) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&envelope{Magic: magic, Version: FormatVersion, Chunk: c})
}

// Decode reads a chunk written by Encode and validates it.
func Decode(r io.Reader) (*Chunk, error) {
	var env envelope
	if err := msgpack.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadFormat, err)
	}
	if env.Magic != magic || env.Version != FormatVersion || env.Chunk == nil {
		return nil, fmt.Errorf("%w: magic %q version %d", ErrBadFormat, env.Magic, env.Version)
	}
	if err := env.Chunk.Validate(); err != nil {
		return nil, err
	}
	return env.Chunk, nil
}
