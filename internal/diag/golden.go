package diag

import (
	"fmt"
	"strings"

	"bobbin/internal/source"
)

// FormatShort renders diagnostics one per line as
// "path:line:col: severity: message", with 1-based positions; col counts
// characters. Notes and
// suggestions follow on indented lines when includeNotes is set. The output
// is stable and used for golden files and `bobbin check --format short`.
func FormatShort(ds []Diagnostic, path string, lines *source.LineIndex, includeNotes bool) string {
	var sb strings.Builder
	for _, d := range ds {
		line, col := uint32(0), uint32(0)
		if l, ok := d.PrimaryLabel(); ok && lines != nil {
			line, col = lines.LineCol(l.Span.Start).Line+1, lines.CharCol(l.Span.Start)+1
		}
		fmt.Fprintf(&sb, "%s:%d:%d: %s: %s\n", path, line, col, d.Severity, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  note: %s\n", n)
		}
		for _, s := range d.Suggestions {
			fmt.Fprintf(&sb, "  help: %s\n", s.Message)
		}
	}
	return sb.String()
}
