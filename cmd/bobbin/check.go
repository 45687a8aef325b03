package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bobbin/internal/driver"
	"bobbin/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path...]",
	Short: "Check scripts for errors without running them",
	Long: `Check scans, parses and resolves Bobbin scripts and reports diagnostics.
Directories are searched recursively for *.bobbin files and checked in parallel.
Without arguments the current directory is checked.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := diagnosticsFormat(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	// машинные форматы не смешиваем с TUI
	useTUI := shouldUseTUI(mode) && (format == "pretty" || format == "short")

	if len(args) == 0 {
		args = []string{"."}
	}
	opts := cfg.driverOptions(false)

	var results []*driver.Result
	for _, path := range args {
		st, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !st.IsDir() {
			file, err := source.Load(path)
			if err != nil {
				return err
			}
			results = append(results, driver.Check(cmd.Context(), file, opts))
			continue
		}

		var dirResults []*driver.Result
		if useTUI {
			files, err := driver.ListScripts(path)
			if err != nil {
				return err
			}
			dirResults, err = checkDirWithUI(cmd.Context(), path, files, opts, jobs)
			if err != nil {
				return err
			}
		} else {
			dirResults, err = driver.CheckDir(cmd.Context(), path, opts, jobs)
			if err != nil {
				return err
			}
		}
		if len(dirResults) == 0 {
			cfg.notef("no %s files under %s", driver.Ext, path)
		}
		results = append(results, dirResults...)
	}

	if err := writeDiagnostics(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	if format == "pretty" || format == "short" {
		if failed == 0 {
			cfg.notef("checked %d file(s): no errors", len(results))
		} else {
			cfg.notef("checked %d file(s): %d with errors", len(results), failed)
		}
	}
	cfg.printTimings()
	if failed > 0 {
		return errReported
	}
	return nil
}
