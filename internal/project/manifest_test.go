package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFindsManifestUpward(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[run]\nmain = \"scripts/intro.bobbin\"\nsave_file = \"save.mp\"\n")
	nested := filepath.Join(root, "scripts", "act1")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("Root = %q, want %q", m.Root, root)
	}
	if got := m.Resolve(m.Config.Run.SaveFile); got != filepath.Join(root, "save.mp") {
		t.Fatalf("Resolve = %q", got)
	}
	// keys left out keep their defaults
	if m.Config.Diagnostics.Threshold != 0.7 || m.Config.Diagnostics.Format != "pretty" {
		t.Fatalf("defaults lost: %+v", m.Config.Diagnostics)
	}
}

func TestLoadWithoutManifest(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil || ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"threshold", "[diagnostics]\nthreshold = 1.5\n", "threshold"},
		{"format", "[diagnostics]\nformat = \"xml\"\n", "format"},
		{"unknown key", "[run]\nmian = \"x.bobbin\"\n", "unknown keys: run.mian"},
		{"main ext", "[run]\nmain = \"x.txt\"\n", ".bobbin"},
		{"syntax", "[run\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("LoadConfig = %v, want error containing %q", err, tt.want)
			}
		})
	}
}
