package bytecode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"bobbin/internal/source"
)

func TestValueDisplay(t *testing.T) {
	// складываем во время выполнения: константы Go свернёт точно в 0.3
	a, b := 0.1, 0.2
	tests := []struct {
		v    Value
		want string
	}{
		{Number(3), "3"},
		{Number(-2), "-2"},
		{Number(1.5), "1.5"},
		{Number(a + b), "0.30000000000000004"},
		{Number(1e20), "1e+20"},
		{String("hi"), "hi"},
		{Bool(true), "true"},
		{Value{}, "0"},
	}
	for _, tt := range tests {
		if got := tt.v.Display(); got != tt.want {
			t.Errorf("Display(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
	if got := String("a\"b").String(); got != `"a\"b"` {
		t.Errorf("String() = %s", got)
	}
}

func TestValueEqualAndTruthy(t *testing.T) {
	if Number(1).Equal(String("1")) {
		t.Fatalf("values of different kinds compared equal")
	}
	if !String("x").Equal(String("x")) || Bool(true).Equal(Bool(false)) {
		t.Fatalf("Equal is wrong")
	}
	for _, v := range []Value{Number(0), String(""), Bool(false)} {
		if v.Truthy() {
			t.Errorf("%v should be falsy", v)
		}
	}
	for _, v := range []Value{Number(-1), String("0"), Bool(true)} {
		if !v.Truthy() {
			t.Errorf("%v should be truthy", v)
		}
	}
}

func sampleChunk() *Chunk {
	c := &Chunk{}
	sp := source.Span{Start: 0, End: 1}
	hi := c.AddConstant(String("hi"))
	c.Emit(Instruction{Op: OpConstant, Arg: hi}, sp)
	c.Emit(Instruction{Op: OpLine}, sp)
	c.Emit(Instruction{Op: OpConstant, Arg: c.AddConstant(String("A"))}, sp)
	c.Emit(Instruction{Op: OpConstant, Arg: c.AddConstant(String("B"))}, sp)
	c.Emit(Instruction{Op: OpChoiceSet, Arg: 2, Targets: []int{5, 6}}, sp)
	c.Emit(Instruction{Op: OpJump, Arg: 6}, sp)
	c.Emit(Instruction{Op: OpReturn}, sp)
	return c
}

func TestAddConstantDeduplicates(t *testing.T) {
	c := &Chunk{}
	a := c.AddConstant(String("gold"))
	b := c.AddConstant(Number(1))
	if c.AddConstant(String("gold")) != a || c.AddConstant(Number(1)) != b {
		t.Fatalf("constants not reused: %v", c.Constants)
	}
	if len(c.Constants) != 2 {
		t.Fatalf("pool = %v", c.Constants)
	}
}

func TestValidate(t *testing.T) {
	if err := sampleChunk().Validate(); err != nil {
		t.Fatalf("valid chunk rejected: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(c *Chunk)
		reason string
	}{
		{"jump past end", func(c *Chunk) { c.Code[5].Arg = 7 }, "jump target"},
		{"choice target", func(c *Chunk) { c.Code[4].Targets[1] = -1 }, "choice target"},
		{"target count", func(c *Chunk) { c.Code[4].Arg = 3 }, "targets"},
		{"constant index", func(c *Chunk) { c.Code[0].Arg = 9 }, "constant"},
		{"name not string", func(c *Chunk) {
			c.Code[0] = Instruction{Op: OpGetHost, Arg: c.AddConstant(Number(1))}
		}, "not a name"},
		{"spans", func(c *Chunk) { c.Spans = c.Spans[:1] }, "spans"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleChunk()
			tt.mutate(c)
			err := c.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) || !strings.Contains(ve.Reason, tt.reason) {
				t.Fatalf("Validate() = %v, want reason containing %q", err, tt.reason)
			}
		})
	}
}

func TestDisassemble(t *testing.T) {
	out := sampleChunk().String()
	for _, want := range []string{
		"== constants (3) ==",
		`#0   "hi"`,
		"0000  CONSTANT       #0 \"hi\"",
		"0004  CHOICE_SET     2 -> [0005 0006]",
		"0005  JUMP           -> 0006",
		"0006  RETURN",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("listing lacks %q:\n%s", want, out)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	c := sampleChunk()
	c.MaxSlots = 2
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.String() != c.String() || got.MaxSlots != 2 {
		t.Fatalf("round trip changed chunk:\n%s\nvs\n%s", got, c)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("not msgpack at all")); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("Decode(garbage) = %v", err)
	}
}
