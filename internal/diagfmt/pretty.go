package diagfmt

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bobbin/internal/diag"
	"bobbin/internal/source"
)

// Pretty renders diagnostics as annotated source snippets:
//
//	error: undefined variable 'naem'
//	  --> intro.bobbin:1:8
//	   |
//	 1 | Hello, {naem}!
//	   |         ^^^^ not defined in this scope
//	   = help: did you mean 'name'?
//
// Diagnostics without labels print the header and notes only.
type Pretty struct {
	opts PrettyOpts

	errColor  *color.Color
	warnColor *color.Color
	infoColor *color.Color
	gutter    *color.Color
	secondary *color.Color
	bold      *color.Color
}

var _ diag.Renderer = (*Pretty)(nil)

// NewPretty creates a renderer. Colors are forced on or off by opts.Color
// regardless of the terminal.
func NewPretty(opts PrettyOpts) *Pretty {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	p := &Pretty{
		opts:      opts,
		errColor:  color.New(color.FgRed, color.Bold),
		warnColor: color.New(color.FgYellow, color.Bold),
		infoColor: color.New(color.FgCyan, color.Bold),
		gutter:    color.New(color.FgBlue, color.Bold),
		secondary: color.New(color.FgBlue),
		bold:      color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.errColor, p.warnColor, p.infoColor, p.gutter, p.secondary, p.bold} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Pretty) sevColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.errColor
	case diag.SevWarning:
		return p.warnColor
	default:
		return p.infoColor
	}
}

// Render formats one diagnostic against src. It never modifies d.
func (p *Pretty) Render(d diag.Diagnostic, sourceID, src string) string {
	var sb strings.Builder
	sev := p.sevColor(d.Severity)
	sb.WriteString(sev.Sprint(d.Severity.String()))
	sb.WriteString(p.bold.Sprint(": " + d.Message))
	sb.WriteByte('\n')

	lines := source.NewLineIndex(src)
	labels := slices.Clone(d.Labels)
	slices.SortStableFunc(labels, func(a, b diag.Label) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})

	// ширина колонки номеров строк
	width := 1
	for _, l := range labels {
		width = max(width, len(fmt.Sprint(lines.LineCol(l.Span.Start).Line+1)))
	}
	pad := strings.Repeat(" ", width)

	if primary, ok := d.PrimaryLabel(); ok {
		pos := lines.LineCol(primary.Span.Start)
		col := lines.CharCol(primary.Span.Start)
		fmt.Fprintf(&sb, "%s%s %s:%d:%d\n", pad, p.gutter.Sprint("-->"), sourceID, pos.Line+1, col+1)
	} else if sourceID != "" && len(labels) == 0 {
		fmt.Fprintf(&sb, "%s%s %s\n", pad, p.gutter.Sprint("-->"), sourceID)
	}

	if len(labels) > 0 {
		fmt.Fprintf(&sb, "%s %s\n", pad, p.gutter.Sprint("|"))
		lastLine := int64(-1)
		for _, l := range labels {
			pos := lines.LineCol(l.Span.Start)
			text := lines.LineText(pos.Line)
			if int64(pos.Line) != lastLine {
				num := fmt.Sprintf("%*d", width, pos.Line+1)
				fmt.Fprintf(&sb, "%s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), p.expandTabs(text))
				lastLine = int64(pos.Line)
			}
			fmt.Fprintf(&sb, "%s %s %s\n", pad, p.gutter.Sprint("|"), p.underline(l, text, pos.Column, sev))
		}
	}

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "%s %s %s\n", pad, p.gutter.Sprint("="), p.bold.Sprint("note")+": "+n)
		}
		for _, s := range d.Suggestions {
			fmt.Fprintf(&sb, "%s %s %s\n", pad, p.gutter.Sprint("="), p.bold.Sprint("help")+": "+s.Message)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// underline builds the marker line under a label: carets for the primary,
// dashes for secondary labels. A span running past the end of the line is
// cut at the line end; an empty span still gets one marker.
func (p *Pretty) underline(l diag.Label, text string, col uint32, sev *color.Color) string {
	size := uint32(len(text)) // #nosec G115 -- bounded by NewLineIndex
	col = min(col, size)
	end := min(size, col+l.Span.Len())
	lead := runewidth.StringWidth(p.expandTabs(text[:col]))
	n := max(runewidth.StringWidth(p.expandTabs(text[col:end])), 1)

	mark, c := "^", sev
	if l.Style == diag.Secondary {
		mark, c = "-", p.secondary
	}
	out := strings.Repeat(" ", lead) + c.Sprint(strings.Repeat(mark, n))
	if l.Message != "" {
		out += " " + c.Sprint(l.Message)
	}
	return out
}

func (p *Pretty) expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", p.opts.TabWidth))
}
