package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"bobbin/dialogue"
	"bobbin/internal/bytecode"
	"bobbin/internal/compiler"
	"bobbin/internal/driver"
	"bobbin/internal/parser"
	"bobbin/internal/source"
	"bobbin/internal/storage"
	"bobbin/internal/symbols"
	"bobbin/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

// parseTimeout is the maximum time allowed for one input. Exceeding it
// points at an infinite loop in error recovery.
const parseTimeout = 5 * time.Second

// maxSteps bounds a run; scripts have no loops, so any real script ends
// well before this.
const maxSteps = 100_000

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}

func FuzzScanner(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		src := clampInput(input)
		tokens := driver.Tokenize(source.NewVirtual("fuzz.bobbin", src))
		if err := testkit.CheckTokenInvariants(tokens, src); err != nil {
			t.Fatalf("%v\ninput: %q", err, src)
		}
	})
}

func FuzzParse(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		src := clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- parseAndCheck(src)
		}()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("%v\ninput: %q", err, src)
			}
		case <-ctx.Done():
			t.Fatalf("parser hang on input (%d bytes): %q", len(src), src)
		}
	})
}

func parseAndCheck(src string) error {
	file := source.NewVirtual("fuzz.bobbin", src)
	script, perrs := parser.ParseSource(src)
	if perrs != nil {
		return nil
	}
	if err := testkit.CheckSpanInvariants(script, file); err != nil {
		return err
	}
	table, serr := symbols.Analyze(script)
	if serr != nil {
		if len(serr.Errors) == 0 {
			return errors.New("analysis error without entries")
		}
		return nil
	}
	if err := testkit.CheckResolved(script, table); err != nil {
		return err
	}
	_, err := compiler.Compile(script, table)
	return err
}

// FuzzRun drives every compilable input to its end, always picking the
// last choice. Runtime errors are fine; panics and runaway runs are not.
func FuzzRun(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		src := clampInput(input)
		rt, err := dialogue.New(src, storage.NewMemory(), storage.MapHost{"name": bytecode.String("fuzz")})
		if err != nil {
			return
		}
		for steps := 0; ; steps++ {
			if steps > maxSteps {
				t.Fatalf("run did not finish in %d steps: %q", maxSteps, src)
			}
			if rt.IsWaitingForChoice() {
				n := len(rt.CurrentChoices())
				if n == 0 {
					t.Fatalf("waiting for a choice with no options: %q", src)
				}
				err = rt.SelectChoice(n - 1)
			} else {
				if rt.CurrentLine() == "" && !rt.HasMore() {
					return
				}
				err = rt.Advance()
			}
			if err != nil {
				return
			}
		}
	})
}
