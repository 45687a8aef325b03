package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bobbin/internal/lsp"
	"bobbin/internal/version"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the Bobbin language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().String("log-file", "", "write server logs to this file instead of stderr")
	lspCmd.Flags().CountP("verbose", "v", "log verbosity (repeat for more)")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	logFile, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return fmt.Errorf("failed to get log-file flag: %w", err)
	}
	verbosity, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	lsp.ConfigureLogging(verbosity, logFile)

	server := lsp.New(lsp.Options{
		Version:        version.Version,
		MaxDiagnostics: cfg.maxDiagnostics,
		Matcher:        cfg.matcher,
	})
	return server.RunStdio()
}
