package diag

import (
	"strings"
	"testing"

	"bobbin/internal/source"
)

type prefixMatcher struct{}

func (prefixMatcher) BestMatch(q string, cands []string) (Match, bool) {
	ms := prefixMatcher{}.FindSimilar(q, cands)
	if len(ms) == 0 {
		return Match{}, false
	}
	return ms[0], true
}

func (prefixMatcher) FindSimilar(q string, cands []string) []Match {
	var out []Match
	for _, c := range cands {
		if len(q) >= 3 && strings.HasPrefix(c, q[:3]) {
			out = append(out, Match{Candidate: c, Score: 1})
		}
	}
	return out
}

func TestBuildersDoNotAlias(t *testing.T) {
	base := NewError("boom", source.Span{Start: 1, End: 2}, "here").WithNote("first")
	a := base.WithNote("a")
	b := base.WithNote("b")
	if a.Notes[1] != "a" || b.Notes[1] != "b" {
		t.Fatalf("derived diagnostics share notes: %v / %v", a.Notes, b.Notes)
	}
	if len(base.Notes) != 1 {
		t.Fatalf("base mutated: %v", base.Notes)
	}
}

func TestPrimaryAndSecondaryLabels(t *testing.T) {
	d := NewError("shadow", source.Span{Start: 10, End: 11}, "again").
		WithSecondary(source.Span{Start: 1, End: 2}, "first")
	p, ok := d.PrimaryLabel()
	if !ok || p.Span.Start != 10 {
		t.Fatalf("primary = %+v, %v", p, ok)
	}
	sec := d.Secondaries()
	if len(sec) != 1 || sec[0].Message != "first" {
		t.Fatalf("secondaries = %+v", sec)
	}

	var runtime Diagnostic
	if _, ok := runtime.PrimaryLabel(); ok {
		t.Fatalf("label-less diagnostic reported a primary label")
	}
}

func TestContextFindSimilarVariable(t *testing.T) {
	ctx := &Context{KnownVariables: []string{"gold", "player_name"}, Matcher: prefixMatcher{}}
	if got, ok := ctx.FindSimilarVariable("playr"); !ok || got != "player_name" {
		t.Fatalf("FindSimilarVariable = %q, %v", got, ok)
	}
	if _, ok := ctx.FindSimilarVariable("zzz"); ok {
		t.Fatalf("unexpected match")
	}
	var nilCtx *Context
	if _, ok := nilCtx.FindSimilarVariable("gold"); ok {
		t.Fatalf("nil context must not match")
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	b.Add(NewError("late", source.Span{Start: 20, End: 21}, ""))
	b.Add(Diagnostic{Severity: SevError, Message: "runtime"})
	b.Add(NewError("early", source.Span{Start: 2, End: 3}, ""))
	if b.Add(NewError("over", source.Span{}, "")) {
		t.Fatalf("bag accepted item over limit")
	}
	b.Sort()
	got := []string{b.Items()[0].Message, b.Items()[1].Message, b.Items()[2].Message}
	want := []string{"early", "late", "runtime"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}

	d := NewBag(0)
	d.AddAll([]Diagnostic{
		NewError("dup", source.Span{Start: 1, End: 2}, ""),
		NewError("dup", source.Span{Start: 1, End: 2}, ""),
	})
	d.Dedup()
	if d.Len() != 1 || !d.HasErrors() {
		t.Fatalf("dedup left %d items", d.Len())
	}
}

func TestRenderAllJoinsWithNewline(t *testing.T) {
	r := rendererFunc(func(d Diagnostic, id, _ string) string { return id + ":" + d.Message })
	out := RenderAll(r, []Diagnostic{{Message: "a"}, {Message: "b"}}, "f", "")
	if out != "f:a\nf:b" {
		t.Fatalf("RenderAll = %q", out)
	}
}

type rendererFunc func(Diagnostic, string, string) string

func (f rendererFunc) Render(d Diagnostic, id, src string) string { return f(d, id, src) }

func TestFormatShort(t *testing.T) {
	src := "Hello\n{naem}\n"
	d := NewError("undefined variable 'naem'", source.Span{Start: 7, End: 11}, "not defined in this scope").
		WithSuggestion("did you mean 'name'?", source.Span{Start: 7, End: 11}, "name")
	got := FormatShort([]Diagnostic{d}, "a.bobbin", source.NewLineIndex(src), true)
	want := "a.bobbin:2:2: error: undefined variable 'naem'\n  help: did you mean 'name'?\n"
	if got != want {
		t.Fatalf("FormatShort =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatShortCountsCharacters(t *testing.T) {
	src := "Hi\n日本 {foo}\n"
	start := strings.Index(src, "foo")
	d := NewError("undefined variable 'foo'", source.SpanOf(start, start+3), "")
	got := FormatShort([]Diagnostic{d}, "w.bobbin", source.NewLineIndex(src), false)
	if want := "w.bobbin:2:5: error: undefined variable 'foo'\n"; got != want {
		t.Fatalf("FormatShort = %q, want %q", got, want)
	}
}
