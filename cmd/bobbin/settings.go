package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bobbin/internal/diag"
	"bobbin/internal/driver"
	"bobbin/internal/observ"
	"bobbin/internal/project"
	"bobbin/internal/similar"
)

// settings merge the global flags with bobbin.toml; an explicit flag
// always wins over the manifest.
type settings struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	format         string
	matcher        diag.Matcher
	manifest       *project.Manifest // nil outside a project
	run            project.RunConfig
	timer          *observ.Timer
}

var cfg settings

func loadSettings(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		cfg.color = true
	case "off":
		cfg.color = false
	case "auto":
		cfg.color = isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected: auto|on|off)", colorFlag)
	}
	if cfg.quiet, err = pf.GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if cfg.timings, err = pf.GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if cfg.timings {
		cfg.timer = observ.NewTimer()
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	m, found, err := project.Load(wd)
	if err != nil {
		return err
	}
	conf := project.Default()
	if found {
		cfg.manifest = m
		conf = m.Config
	}
	cfg.run = conf.Run
	cfg.format = conf.Diagnostics.Format

	cfg.maxDiagnostics = conf.Diagnostics.Max
	if pf.Changed("max-diagnostics") || !found {
		if cfg.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	threshold := conf.Diagnostics.Threshold
	if pf.Changed("threshold") || !found {
		if threshold, err = pf.GetFloat64("threshold"); err != nil {
			return fmt.Errorf("failed to get threshold flag: %w", err)
		}
	}
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("--threshold must be within 0..1, got %v", threshold)
	}
	cfg.matcher = similar.New(threshold)
	return nil
}

// resolvePath makes a manifest setting usable from the working directory.
func (s *settings) resolvePath(rel string) string {
	if s.manifest == nil {
		return rel
	}
	return s.manifest.Resolve(rel)
}

// driverOptions builds pipeline options from the settings; the disk
// cache is opened only when asked for.
func (s *settings) driverOptions(useCache bool) driver.Options {
	opts := driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		Matcher:        s.matcher,
		Timer:          s.timer,
	}
	if useCache {
		cache, err := driver.OpenDiskCache("bobbin")
		if err != nil {
			s.notef("cache disabled: %v", err)
		} else {
			opts.Cache = cache
		}
	}
	return opts
}

// notef prints a status line on stderr unless --quiet.
func (s *settings) notef(format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// printTimings writes the phase summary on stderr when --timings is on.
func (s *settings) printTimings() {
	if s.timer == nil {
		return
	}
	fmt.Fprint(os.Stderr, s.timer.Summary())
}
