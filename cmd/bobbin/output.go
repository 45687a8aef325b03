package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bobbin/internal/diag"
	"bobbin/internal/diagfmt"
	"bobbin/internal/driver"
	"bobbin/internal/version"
)

// diagnosticsFormat returns --format when given, else the manifest default.
func diagnosticsFormat(cmd *cobra.Command) (string, error) {
	format := cfg.format
	if cmd.Flags().Changed("format") {
		f, err := cmd.Flags().GetString("format")
		if err != nil {
			return "", err
		}
		format = f
	}
	switch format {
	case "pretty", "short", "json", "sarif":
		return format, nil
	default:
		return "", fmt.Errorf("unknown format: %s (expected: pretty|short|json|sarif)", format)
	}
}

// writeDiagnostics prints the diagnostics of every result. The machine
// formats always emit a document, even an empty one.
func writeDiagnostics(w io.Writer, format string, results []*driver.Result) error {
	reports := make([]diagfmt.FileReport, 0, len(results))
	for _, r := range results {
		reports = append(reports, diagfmt.FileReport{File: r.File, Diagnostics: r.Diagnostics})
	}

	switch format {
	case "json":
		return diagfmt.JSON(w, reports, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			BaseDir:          workDir(),
			Max:              cfg.maxDiagnostics,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(w, reports, diagfmt.SarifRunMeta{
			ToolName:       "bobbin",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	case "short":
		for _, r := range results {
			if len(r.Diagnostics) == 0 {
				continue
			}
			if _, err := io.WriteString(w, diag.FormatShort(r.Diagnostics, r.File.DisplayPath(), r.File.Lines(), true)); err != nil {
				return err
			}
		}
		return nil
	default:
		pretty := diagRenderer()
		for _, r := range results {
			if len(r.Diagnostics) == 0 {
				continue
			}
			out := diag.RenderAll(pretty, r.Diagnostics, r.File.DisplayPath(), r.File.Content)
			if _, err := fmt.Fprintf(w, "%s\n\n", out); err != nil {
				return err
			}
			if r.Truncated {
				fmt.Fprintf(w, "note: more diagnostics in %s were omitted (see --max-diagnostics)\n\n", r.File.DisplayPath())
			}
		}
		return nil
	}
}

func diagRenderer() *diagfmt.Pretty {
	return diagfmt.NewPretty(diagfmt.PrettyOpts{Color: cfg.color, ShowNotes: true})
}

func workDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
