package source

import (
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Position is a 0-based line/column pair. Column is in bytes unless it came
// from UTF16Col or ToLSPPosition with useUTF16 set.
type Position struct {
	Line   uint32
	Column uint32
}

// LineIndex maps byte offsets to line/column positions with O(log n) lookups.
// Only '\n' starts a new line, so a CRLF pair leaves '\r' at the end of the
// previous line.
type LineIndex struct {
	starts []uint32 // starts[0] == 0
	src    string
}

// NewLineIndex records the start offset of every line in src.
func NewLineIndex(src string) *LineIndex {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		panic(fmt.Errorf("source too large for line index: %w", err))
	}
	starts := make([]uint32, 1, 1+len(src)/32)
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, uint32(i+1)) // #nosec G115 -- bounded by the check above
		}
	}
	return &LineIndex{starts: starts, src: src}
}

// LineCount is the number of lines; empty input has one line.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// LineStart returns the byte offset where the 0-based line begins.
func (li *LineIndex) LineStart(line uint32) uint32 {
	if int(line) >= len(li.starts) {
		return li.size()
	}
	return li.starts[line]
}

// LineText returns the 0-based line without its terminator.
func (li *LineIndex) LineText(line uint32) string {
	if int(line) >= len(li.starts) {
		return ""
	}
	start := li.starts[line]
	end := li.size()
	if int(line)+1 < len(li.starts) {
		end = li.starts[line+1] - 1
	}
	text := li.src[start:end]
	if n := len(text); n > 0 && text[n-1] == '\r' {
		text = text[:n-1]
	}
	return text
}

// LineCol converts a byte offset to a 0-based line and byte column.
func (li *LineIndex) LineCol(off uint32) Position {
	off = min(off, li.size())
	// наибольший starts[i] <= off
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off }) - 1
	line = max(line, 0)
	return Position{
		Line:   uint32(line), // #nosec G115 -- line < len(starts) which fits in uint32
		Column: off - li.starts[line],
	}
}

// UTF16Col returns the column of off counted in UTF-16 code units, so a
// character outside the BMP counts as two.
func (li *LineIndex) UTF16Col(off uint32) uint32 {
	off = min(off, li.size())
	pos := li.LineCol(off)
	prefix := li.src[li.starts[pos.Line]:off]
	var col uint32
	for len(prefix) > 0 {
		r, size := utf8.DecodeRuneInString(prefix)
		prefix = prefix[size:]
		if n := utf16.RuneLen(r); n > 0 {
			col += uint32(n) // #nosec G115 -- RuneLen is 1 or 2
		} else {
			col++
		}
	}
	return col
}

// CharCol returns the column of off counted in characters (runes), the
// column people see in their editor.
func (li *LineIndex) CharCol(off uint32) uint32 {
	off = min(off, li.size())
	pos := li.LineCol(off)
	n := utf8.RuneCountInString(li.src[li.starts[pos.Line]:off])
	return uint32(n) // #nosec G115 -- bounded by the line length
}

// ToLSPPosition converts off using byte columns, or UTF-16 columns when the
// editor negotiated that encoding.
func (li *LineIndex) ToLSPPosition(off uint32, useUTF16 bool) Position {
	pos := li.LineCol(off)
	if useUTF16 {
		pos.Column = li.UTF16Col(off)
	}
	return pos
}

// Offset is the inverse of LineCol for byte columns; out-of-range columns
// clamp to the end of the line.
func (li *LineIndex) Offset(pos Position) uint32 {
	if int(pos.Line) >= len(li.starts) {
		return li.size()
	}
	start := li.starts[pos.Line]
	end := li.size()
	if int(pos.Line)+1 < len(li.starts) {
		end = li.starts[pos.Line+1]
	}
	return min(start+pos.Column, end)
}

// FromLSPPosition is the inverse of ToLSPPosition. A UTF-16 column that
// falls inside a surrogate pair or past the line end snaps forward to the
// next character boundary, the line end at most.
func (li *LineIndex) FromLSPPosition(pos Position, useUTF16 bool) uint32 {
	if !useUTF16 {
		return li.Offset(pos)
	}
	if int(pos.Line) >= len(li.starts) {
		return li.size()
	}
	start := li.starts[pos.Line]
	text := li.LineText(pos.Line)
	var col uint32
	for i, r := range text {
		if col >= pos.Column {
			return start + uint32(i) // #nosec G115 -- i < len(src)
		}
		if n := utf16.RuneLen(r); n > 0 {
			col += uint32(n) // #nosec G115 -- RuneLen is 1 or 2
		} else {
			col++
		}
	}
	return start + uint32(len(text)) // #nosec G115 -- bounded by src
}

func (li *LineIndex) size() uint32 {
	return uint32(len(li.src)) // #nosec G115 -- checked in NewLineIndex
}
