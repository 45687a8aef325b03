package diag

import (
	"bobbin/internal/source"
)

// LabelStyle distinguishes the anchor label from supporting context.
type LabelStyle uint8

const (
	// Primary marks the main location of the problem.
	Primary LabelStyle = iota
	// Secondary marks related locations ("previously declared here").
	Secondary
)

// Label attaches a message to a span of the script.
type Label struct {
	Span    source.Span
	Message string
	Style   LabelStyle
}

// Suggestion is a fix-it: replace Span with Replacement.
type Suggestion struct {
	Message     string
	Span        source.Span
	Replacement string
}

// Diagnostic is a plain value; formatting lives in internal/diagfmt.
type Diagnostic struct {
	Severity    Severity
	Message     string
	Labels      []Label
	Notes       []string
	Suggestions []Suggestion
}

// NewError creates an error with a primary label.
func NewError(msg string, span source.Span, label string) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Message:  msg,
		Labels:   []Label{{Span: span, Message: label, Style: Primary}},
	}
}

// WithSecondary appends a secondary label. Builders never write into the
// receiver's backing arrays, so diagnostics derived from one base stay independent.
func (d Diagnostic) WithSecondary(span source.Span, msg string) Diagnostic {
	d.Labels = append(d.Labels[:len(d.Labels):len(d.Labels)], Label{Span: span, Message: msg, Style: Secondary})
	return d
}

// WithNote appends a location-free note.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], note)
	return d
}

// WithSuggestion appends a replacement suggestion.
func (d Diagnostic) WithSuggestion(msg string, span source.Span, replacement string) Diagnostic {
	d.Suggestions = append(d.Suggestions[:len(d.Suggestions):len(d.Suggestions)], Suggestion{Message: msg, Span: span, Replacement: replacement})
	return d
}

// PrimaryLabel returns the first primary label, if any. Runtime errors have none.
func (d *Diagnostic) PrimaryLabel() (Label, bool) {
	for _, l := range d.Labels {
		if l.Style == Primary {
			return l, true
		}
	}
	return Label{}, false
}

// Secondaries returns the labels that are not primary.
func (d *Diagnostic) Secondaries() []Label {
	var out []Label
	for _, l := range d.Labels {
		if l.Style != Primary {
			out = append(out, l)
		}
	}
	return out
}
