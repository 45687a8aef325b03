package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bobbin/internal/bytecode"
	"bobbin/internal/driver"
)

// ChunkExt marks files written by `bobbin disasm -o`.
const ChunkExt = ".bbc"

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] file",
	Short: "Compile a script and print its bytecode",
	Long: `Disasm prints the constant pool and instructions of a compiled script.
The input is either a .bobbin script or a .bbc chunk written with -o.`,
	Args: cobra.ExactArgs(1),
	RunE: runDisasm,
}

func init() {
	disasmCmd.Flags().StringP("output", "o", "", "also write the encoded chunk to this file")
}

func runDisasm(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	var chunk *bytecode.Chunk
	if filepath.Ext(args[0]) == ChunkExt {
		if chunk, err = readChunk(args[0]); err != nil {
			return err
		}
	} else {
		res, err := driver.BuildFile(cmd.Context(), args[0], cfg.driverOptions(false))
		if err != nil {
			return err
		}
		if !res.OK() {
			if err := writeDiagnostics(os.Stderr, "pretty", []*driver.Result{res}); err != nil {
				return err
			}
			return errReported
		}
		chunk = res.Chunk
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	if err := bytecode.Disassemble(w, chunk); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if output != "" {
		if err := writeChunk(output, chunk); err != nil {
			return err
		}
		cfg.notef("wrote %s", output)
	}
	cfg.printTimings()
	return nil
}

func readChunk(path string) (*bytecode.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	chunk, err := bytecode.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return chunk, nil
}

func writeChunk(path string, chunk *bytecode.Chunk) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := bytecode.Encode(w, chunk); err != nil {
		return err
	}
	return w.Flush()
}
