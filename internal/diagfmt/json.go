package diagfmt

import (
	"encoding/json"
	"io"

	"bobbin/internal/diag"
	"bobbin/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// LabelJSON is a secondary label.
type LabelJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// SuggestionJSON is a replacement suggestion.
type SuggestionJSON struct {
	Message     string       `json:"message"`
	Replacement string       `json:"replacement"`
	Location    LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате. Location is
// nil for runtime diagnostics, which have no place in the text.
type DiagnosticJSON struct {
	Severity    string           `json:"severity"`
	Message     string           `json:"message"`
	Label       string           `json:"label,omitempty"`
	Location    *LocationJSON    `json:"location,omitempty"`
	Related     []LabelJSON      `json:"related,omitempty"`
	Notes       []string         `json:"notes,omitempty"`
	Suggestions []SuggestionJSON `json:"suggestions,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, f *source.File, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(f.Path, opts.PathMode, opts.BaseDir),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions {
		// 1-based for humans and tools alike
		lines := f.Lines()
		start := lines.ToLSPPosition(span.Start, opts.UTF16Columns)
		end := lines.ToLSPPosition(span.End, opts.UTF16Columns)
		loc.StartLine, loc.StartCol = start.Line+1, start.Column+1
		loc.EndLine, loc.EndCol = end.Line+1, end.Column+1
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(reports []FileReport, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	for _, r := range reports {
		for _, d := range r.Diagnostics {
			if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
				out.Count = len(out.Diagnostics)
				return out
			}
			out.Diagnostics = append(out.Diagnostics, diagnosticJSON(d, r.File, opts))
		}
	}
	out.Count = len(out.Diagnostics)
	return out
}

func diagnosticJSON(d diag.Diagnostic, f *source.File, opts JSONOpts) DiagnosticJSON {
	dj := DiagnosticJSON{
		Severity: d.Severity.String(),
		Message:  d.Message,
	}
	if p, ok := d.PrimaryLabel(); ok {
		loc := makeLocation(p.Span, f, opts)
		dj.Location = &loc
		dj.Label = p.Message
	}
	for _, l := range d.Secondaries() {
		dj.Related = append(dj.Related, LabelJSON{Message: l.Message, Location: makeLocation(l.Span, f, opts)})
	}
	if opts.IncludeNotes {
		dj.Notes = d.Notes
		for _, s := range d.Suggestions {
			dj.Suggestions = append(dj.Suggestions, SuggestionJSON{
				Message:     s.Message,
				Replacement: s.Replacement,
				Location:    makeLocation(s.Span, f, opts),
			})
		}
	}
	return dj
}

// JSON writes the diagnostics of all reports as one indented document.
func JSON(w io.Writer, reports []FileReport, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(reports, opts))
}
