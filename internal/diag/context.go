package diag

import "strings"

// Match is one candidate scored by a Matcher, 0 (unrelated) to 1 (equal).
type Match struct {
	Candidate string
	Score     float64
}

// Matcher finds similar strings for "did you mean?" suggestions.
// Implementations drop candidates scoring below their threshold; a score
// equal to the threshold is kept.
type Matcher interface {
	BestMatch(query string, candidates []string) (Match, bool)
	// FindSimilar returns every match at or above the threshold, best first.
	FindSimilar(query string, candidates []string) []Match
}

// Context carries what error conversions need beyond the error itself.
type Context struct {
	KnownVariables []string
	Matcher        Matcher
}

// FindSimilarVariable returns the closest known variable name.
func (c *Context) FindSimilarVariable(name string) (string, bool) {
	if c == nil || c.Matcher == nil || len(c.KnownVariables) == 0 {
		return "", false
	}
	m, ok := c.Matcher.BestMatch(name, c.KnownVariables)
	if !ok {
		return "", false
	}
	return m.Candidate, true
}

// Convertible is implemented by every error type of the pipeline.
type Convertible interface {
	error
	Diagnostic(ctx *Context) Diagnostic
}

// Convert turns a list of pipeline errors into diagnostics sharing one context.
func Convert[E Convertible](errs []E, ctx *Context) []Diagnostic {
	out := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Diagnostic(ctx))
	}
	return out
}

// Renderer turns a diagnostic into display text. It must not modify d.
type Renderer interface {
	Render(d Diagnostic, sourceID, src string) string
}

// RenderAll renders each diagnostic and joins them with a newline.
func RenderAll(r Renderer, ds []Diagnostic, sourceID, src string) string {
	parts := make([]string, 0, len(ds))
	for _, d := range ds {
		parts = append(parts, r.Render(d, sourceID, src))
	}
	return strings.Join(parts, "\n")
}
