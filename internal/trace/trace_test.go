package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "ERROR", "Phase", "detail"} {
		l, err := ParseLevel(s)
		if err != nil || !strings.EqualFold(l.String(), s) {
			t.Fatalf("ParseLevel(%q) = %v, %v", s, l, err)
		}
	}
	for _, s := range []string{"loud", "debug"} {
		if _, err := ParseLevel(s); err == nil {
			t.Fatalf("ParseLevel accepted %q", s)
		}
	}
}

func TestLevelRecords(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopePhase, true},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
	}
	for _, tt := range tests {
		if got := tt.level.Records(tt.scope); got != tt.want {
			t.Errorf("%v.Records(%v) = %v", tt.level, tt.scope, got)
		}
	}
}

func TestStreamSpansNest(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelPhase, FormatText))

	ctx, outer := Start(ctx, ScopeDriver, "check")
	_, inner := Start(ctx, ScopePhase, "parse")
	inner.WithExtra("errors", "0").End("ok")
	_, file := Start(ctx, ScopeFile, "intro.bobbin") // ниже уровня phase
	file.End("")
	outer.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "  → phase:parse") {
		t.Fatalf("inner span not indented: %q", lines[1])
	}
	if !strings.Contains(lines[2], "← phase:parse (ok)") || !strings.Contains(lines[2], "{errors=0}") {
		t.Fatalf("end line = %q", lines[2])
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	Begin(tr, ScopeFile, "intro.bobbin", 7).End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("invalid NDJSON %q: %v", lines[1], err)
	}
	if ev["kind"] != "end" || ev["scope"] != "file" || ev["detail"] != "done" || ev["parent_id"] != float64(7) {
		t.Fatalf("event = %v", ev)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelPhase)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Scope: ScopePhase, Name: name})
	}
	evs := r.events()
	if len(evs) != 3 || evs[0].Name != "c" || evs[2].Name != "e" {
		t.Fatalf("events = %+v", evs)
	}
	if evs[0].Seq >= evs[2].Seq {
		t.Fatalf("sequence not increasing: %d, %d", evs[0].Seq, evs[2].Seq)
	}
}

func TestErrorLevelUsesRingOnly(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePhase, "compile", 0).End("")
	if buf.Len() != 0 {
		t.Fatalf("error level wrote eagerly: %q", buf.String())
	}
	ring, ok := RingOf(tr)
	if !ok || len(ring.events()) != 2 {
		t.Fatalf("ring = %v, %v", ring, ok)
	}
}

func TestBothStreamsAndKeepsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePhase, "resolve", 0).End("")
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Fatalf("stream got %d lines: %q", n, buf.String())
	}
	ring, ok := RingOf(tr)
	if !ok {
		t.Fatalf("both mode has no ring")
	}
	var dump bytes.Buffer
	if err := ring.Dump(&dump, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dump.String(), "← phase:resolve") {
		t.Fatalf("dump = %q", dump.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{"t.ndjson": FormatNDJSON, "t.jsonl": FormatNDJSON, "t.log": FormatText, "-": FormatText} {
		if got := formatFor(path); got != want {
			t.Errorf("formatFor(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestDisabledSpans(t *testing.T) {
	ctx, s := Start(context.Background(), ScopeDriver, "x")
	if s.ID() != 0 || ctx.Value(spanKey{}) != nil {
		t.Fatalf("span recorded without a tracer")
	}
	if s.End("") < 0 {
		t.Fatalf("negative duration")
	}
	var nilSpan *Span
	nilSpan.WithExtra("k", "v").End("")
}
