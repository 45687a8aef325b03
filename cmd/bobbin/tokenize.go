package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bobbin/internal/diagfmt"
	"bobbin/internal/driver"
	"bobbin/internal/source"
	"bobbin/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.bobbin",
	Short: "Tokenize a Bobbin script",
	Long:  `Tokenize prints the token stream of a script, scanner errors included`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	file, err := source.Load(args[0])
	if err != nil {
		return err
	}
	tokens := driver.Tokenize(file)

	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), tokens, file)
	case "json":
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), tokens, file)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}

	// ошибки сканера уже в потоке, здесь только код выхода
	for _, tok := range tokens {
		if tok.Kind == token.Error {
			if format == "pretty" {
				fmt.Fprintf(os.Stderr, "%s: scanner reported errors\n", file.DisplayPath())
			}
			return errReported
		}
	}
	return nil
}
