// Package version holds build metadata for the bobbin CLI. The variables
// can be overridden at build time via -ldflags "-X bobbin/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"

	"bobbin/internal/bytecode"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored renders Version with major, minor and patch in their own colors.
// Pre-release suffixes stay plain.
func Colored(enable bool) string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	for i, p := range parts {
		if i >= len(partColors) {
			break
		}
		c := *partColors[i]
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		parts[i] = c.Sprint(p)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Banner is the multi-line output of `bobbin version`.
func Banner(enable bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "bobbin %s\n", Colored(enable))
	if GitCommit != "" {
		fmt.Fprintf(&sb, "commit:   %s\n", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "built:    %s\n", BuildDate)
	}
	fmt.Fprintf(&sb, "bytecode: v%d\n", bytecode.FormatVersion)
	fmt.Fprintf(&sb, "go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return sb.String()
}
