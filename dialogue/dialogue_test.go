package dialogue_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"bobbin/dialogue"
	"bobbin/internal/bytecode"
	"bobbin/internal/parser"
	"bobbin/internal/storage"
	"bobbin/internal/symbols"
	"bobbin/internal/vm"
)

func TestEmptySource(t *testing.T) {
	rt, err := dialogue.New("", storage.NewMemory(), storage.MapHost{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if rt.CurrentLine() != "" || rt.HasMore() || rt.IsWaitingForChoice() {
		t.Fatalf("empty source: line=%q more=%v", rt.CurrentLine(), rt.HasMore())
	}
	if err := rt.Advance(); err != nil {
		t.Fatalf("Advance at end: %v", err)
	}
}

func TestHelloWorld(t *testing.T) {
	rt, err := dialogue.New("temp x = \"hi\"\n{x}, world!\n", storage.NewMemory(), storage.MapHost{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if rt.CurrentLine() != "hi, world!" {
		t.Fatalf("line = %q", rt.CurrentLine())
	}
	if rt.HasMore() {
		t.Fatalf("HasMore after the only line")
	}
}

func TestChoiceRoundTrip(t *testing.T) {
	st := storage.NewMemory()
	rt, err := dialogue.New("save met = false\n- Greet\n    set met = true\n    Hi!\n- Ignore\n    ...\n", st, storage.MapHost{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !rt.IsWaitingForChoice() || strings.Join(rt.CurrentChoices(), ",") != "Greet,Ignore" {
		t.Fatalf("choices = %v waiting=%v", rt.CurrentChoices(), rt.IsWaitingForChoice())
	}
	if !rt.HasMore() {
		t.Fatalf("HasMore false at a pending choice")
	}
	// Advance does not skip a pending choice.
	if err := rt.Advance(); err != nil || !rt.IsWaitingForChoice() {
		t.Fatalf("Advance at choice: %v", err)
	}

	err = rt.SelectChoice(5)
	var de *dialogue.Error
	if !errors.As(err, &de) || de.Phase != dialogue.PhaseRuntime || de.Runtime.Kind != vm.InvalidChoiceIndex {
		t.Fatalf("SelectChoice(5) = %v", err)
	}
	if !rt.IsWaitingForChoice() {
		t.Fatalf("bad index dropped the pending choice")
	}

	if err := rt.SelectChoice(0); err != nil {
		t.Fatalf("SelectChoice(0): %v", err)
	}
	if rt.CurrentLine() != "Hi!" || rt.IsWaitingForChoice() {
		t.Fatalf("after pick: line=%q", rt.CurrentLine())
	}
	if v, _ := st.Get("met"); !v.Equal(bytecode.Bool(true)) {
		t.Fatalf("met = %v", v)
	}
	if rt.HasMore() {
		t.Fatalf("HasMore after last branch line")
	}
	if err := rt.SelectChoice(0); !errors.As(err, &de) || de.Runtime.Kind != vm.NotAtChoice {
		t.Fatalf("SelectChoice when not waiting = %v", err)
	}
}

func TestSaveDefaultSurvivesReload(t *testing.T) {
	st := storage.NewMemory()
	src := "save visits = 0\nset visits = visits + 1\nVisit {visits}.\n"
	for i, want := range []string{"Visit 1.", "Visit 2.", "Visit 3."} {
		rt, err := dialogue.New(src, st, storage.MapHost{})
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if rt.CurrentLine() != want {
			t.Fatalf("run %d: line = %q, want %q", i, rt.CurrentLine(), want)
		}
	}
}

func TestNewFromDecodedChunk(t *testing.T) {
	chunk, err := dialogue.Compile("extern who\nHello, {who}!\n")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	var buf bytes.Buffer
	if err := bytecode.Encode(&buf, chunk); err != nil {
		t.Fatal(err)
	}
	decoded, err := bytecode.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	rt, err := dialogue.NewFromChunk(decoded, storage.NewMemory(), storage.MapHost{"who": bytecode.String("Ana")})
	if err != nil {
		t.Fatalf("NewFromChunk: %v", err)
	}
	if rt.CurrentLine() != "Hello, Ana!" {
		t.Fatalf("line = %q", rt.CurrentLine())
	}
}

func TestNewFailsOnFirstStep(t *testing.T) {
	_, err := dialogue.New("extern who\n{who}\n", storage.NewMemory(), storage.MapHost{})
	var de *dialogue.Error
	if !errors.As(err, &de) || de.Phase != dialogue.PhaseRuntime {
		t.Fatalf("New = %v", err)
	}
	var re *vm.RuntimeError
	if !errors.As(err, &re) || re.Name != "who" {
		t.Fatalf("runtime error not reachable through errors.As: %v", err)
	}
	ds := de.Diagnostics()
	if len(ds) != 1 || len(ds[0].Labels) != 0 || len(ds[0].Notes) != 2 {
		t.Fatalf("runtime diagnostic = %+v", ds)
	}
}

func TestErrorDiagnosticsBorrowAndConsume(t *testing.T) {
	_, err := dialogue.New("temp a = 1\n{b}\n{c}\n", storage.NewMemory(), storage.MapHost{})
	var de *dialogue.Error
	if !errors.As(err, &de) || de.Phase != dialogue.PhaseSemantic {
		t.Fatalf("New = %v", err)
	}
	var ae *symbols.AnalysisError
	if !errors.As(err, &ae) || len(ae.Errors) != 2 {
		t.Fatalf("analysis errors: %v", err)
	}

	first := de.Diagnostics()
	first[0].Message = "mutated"
	second := de.Diagnostics()
	if len(second) != 2 || second[0].Message == "mutated" {
		t.Fatalf("Diagnostics shares state between calls: %+v", second)
	}
	if de.Phase != dialogue.PhaseSemantic {
		t.Fatalf("borrowing path changed the error")
	}

	owned := de.IntoDiagnostics()
	if len(owned) != 2 {
		t.Fatalf("IntoDiagnostics = %d items", len(owned))
	}
	if de.Diagnostics() != nil || de.Semantic != nil {
		t.Fatalf("error not emptied after IntoDiagnostics")
	}
}

func TestParseErrorsAreCollected(t *testing.T) {
	_, err := dialogue.Compile("set = 1\nHello\ntemp x 2\nBye\n")
	var de *dialogue.Error
	if !errors.As(err, &de) || de.Phase != dialogue.PhaseParse || len(de.Parse) != 2 {
		t.Fatalf("Compile = %v", err)
	}
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("ParseError not reachable: %v", err)
	}
	if !strings.HasPrefix(de.Error(), "2 parse errors") {
		t.Fatalf("Error() = %q", de.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"clean", "extern n\nHi {n}\n", nil},
		{"undefined", "Hello {unknown}!\n", []string{"undefined variable 'unknown'"}},
		{"extern write", "extern hp\nset hp = 1\n", []string{"cannot assign to extern variable 'hp'"}},
		{"shadowing", "temp a = 1\n- A\n    temp a = 2\n", []string{"variable 'a' shadows previous declaration"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := dialogue.Validate(tt.src)
			if len(ds) != len(tt.want) {
				t.Fatalf("got %d diagnostics: %+v", len(ds), ds)
			}
			for i, d := range ds {
				if d.Message != tt.want[i] {
					t.Errorf("diag %d = %q, want %q", i, d.Message, tt.want[i])
				}
			}
		})
	}
}

func TestValidateSuggestsCloseName(t *testing.T) {
	ds := dialogue.Validate("extern player_name\nHi {playr_name}\n")
	if len(ds) != 1 || len(ds[0].Suggestions) != 1 || ds[0].Suggestions[0].Replacement != "player_name" {
		t.Fatalf("diagnostics = %+v", ds)
	}
}
