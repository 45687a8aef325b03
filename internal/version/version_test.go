package version

import (
	"strings"
	"testing"
)

func TestColoredPlain(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	tests := []struct{ in, want string }{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"2.0.0-rc.1", "2.0.0-rc.1"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(false); got != tt.want {
			t.Errorf("Colored(false) with %q = %q", tt.in, got)
		}
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	if got := Colored(true); !strings.Contains(got, "\x1b[") {
		t.Fatalf("Colored(true) = %q, want ANSI escapes", got)
	}
}

func TestBannerOptionalFields(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit, BuildDate = "", ""
	if b := Banner(false); strings.Contains(b, "commit:") || !strings.Contains(b, "bytecode: v") {
		t.Fatalf("Banner = %q", b)
	}
	GitCommit, BuildDate = "abc123", "2026-01-15T10:30:00Z"
	b := Banner(false)
	if !strings.Contains(b, "commit:   abc123") || !strings.Contains(b, "built:    2026-01-15T10:30:00Z") {
		t.Fatalf("Banner = %q", b)
	}
}
