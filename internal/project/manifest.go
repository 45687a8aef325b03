// Package project finds and reads bobbin.toml.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file searched for upward from the working directory.
const ManifestName = "bobbin.toml"

// Manifest is a parsed bobbin.toml. Relative paths in it are resolved
// against Root.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors bobbin.toml:
//
//	[diagnostics]
//	threshold = 0.7
//	format = "pretty"
//	max = 100
//
//	[run]
//	main = "scripts/intro.bobbin"
//	save_file = "save.mp"
//	host_file = "host.toml"
//	cache = true
type Config struct {
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Run         RunConfig         `toml:"run"`
}

type DiagnosticsConfig struct {
	Threshold float64 `toml:"threshold"`
	Format    string  `toml:"format"`
	Max       int     `toml:"max"`
}

type RunConfig struct {
	Main     string `toml:"main"`
	SaveFile string `toml:"save_file"`
	HostFile string `toml:"host_file"`
	Cache    bool   `toml:"cache"`
}

// Default returns the settings used when there is no manifest or a key
// is left out.
func Default() Config {
	return Config{
		Diagnostics: DiagnosticsConfig{Threshold: 0.7, Format: "pretty", Max: 100},
	}
}

var formats = []string{"pretty", "json", "sarif", "short"}

// FindManifest walks up from startDir to locate bobbin.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest above startDir. ok is false when
// there is none; the caller then uses Default.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig parses one manifest file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	d := c.Diagnostics
	if d.Threshold < 0 || d.Threshold > 1 {
		return fmt.Errorf("[diagnostics].threshold must be within 0..1, got %v", d.Threshold)
	}
	if d.Max < 0 {
		return fmt.Errorf("[diagnostics].max must not be negative")
	}
	valid := false
	for _, f := range formats {
		valid = valid || d.Format == f
	}
	if !valid {
		return fmt.Errorf("[diagnostics].format must be one of %s, got %q", strings.Join(formats, "|"), d.Format)
	}
	if m := strings.TrimSpace(c.Run.Main); m != "" && filepath.Ext(m) != ".bobbin" {
		return fmt.Errorf("[run].main must be a .bobbin file, got %q", m)
	}
	return nil
}

// Resolve makes a manifest-relative path absolute; empty stays empty.
func (m *Manifest) Resolve(rel string) string {
	rel = strings.TrimSpace(rel)
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}
