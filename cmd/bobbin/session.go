package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bobbin/dialogue"
	"bobbin/internal/bytecode"
	"bobbin/internal/diag"
	"bobbin/internal/driver"
	"bobbin/internal/source"
	"bobbin/internal/storage"
	"bobbin/internal/vm"
)

// session is a compiled script ready to play, with the storage it runs
// against.
type session struct {
	file *source.File
	rt   *dialogue.Runtime
	save *storage.File // nil without a save file
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().String("save", "", "save file for 'save' variables (default from bobbin.toml)")
	cmd.Flags().String("host", "", "TOML file with extern variables (default from bobbin.toml)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the bytecode cache")
	cmd.Flags().Bool("vm-trace", false, "trace executed instructions to stderr")
}

// openSession compiles the script named by args, or [run].main, and
// starts it. A .bbc chunk is run as is. Compile and first-step failures
// are printed here.
func openSession(cmd *cobra.Command, args []string) (_ *session, err error) {
	path := cfg.resolvePath(cfg.run.Main)
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, errors.New("no script given and no [run].main in bobbin.toml")
	}

	s := &session{}
	var chunk *bytecode.Chunk
	if filepath.Ext(path) == ChunkExt {
		// у готового чанка нет исходника, диагностики без сниппетов
		if chunk, err = readChunk(path); err != nil {
			return nil, err
		}
		s.file = source.NewVirtual(path, "")
	} else {
		noCache, err := cmd.Flags().GetBool("no-cache")
		if err != nil {
			return nil, err
		}
		res, err := driver.BuildFile(cmd.Context(), path, cfg.driverOptions(cfg.run.Cache && !noCache))
		if err != nil {
			return nil, err
		}
		if !res.OK() {
			if err := writeDiagnostics(os.Stderr, "pretty", []*driver.Result{res}); err != nil {
				return nil, err
			}
			return nil, errReported
		}
		if res.Cached {
			cfg.notef("using cached bytecode for %s", res.File.DisplayPath())
		}
		s.file, chunk = res.File, res.Chunk
	}

	var st dialogue.VariableStorage = storage.NewMemory()
	if savePath, err := pathFlag(cmd, "save", cfg.run.SaveFile); err != nil {
		return nil, err
	} else if savePath != "" {
		if s.save, err = storage.OpenFile(savePath); err != nil {
			return nil, err
		}
		st = s.save
	}

	host := storage.MapHost{}
	if hostPath, err := pathFlag(cmd, "host", cfg.run.HostFile); err != nil {
		return nil, err
	} else if hostPath != "" {
		if host, err = storage.LoadHostFile(hostPath); err != nil {
			return nil, err
		}
	}

	var opts []dialogue.Option
	if on, _ := cmd.Flags().GetBool("vm-trace"); on {
		opts = append(opts, dialogue.WithTracer(vm.NewTracer(os.Stderr)))
	}
	s.rt, err = dialogue.NewFromChunk(chunk, st, host, opts...)
	if err != nil {
		ferr := s.fail(os.Stderr, err)
		if cerr := s.close(); cerr != nil {
			return nil, cerr
		}
		return nil, ferr
	}
	return s, nil
}

// pathFlag returns the flag value, else the manifest setting resolved
// against the project root.
func pathFlag(cmd *cobra.Command, name, fromManifest string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err
	}
	if v != "" {
		return v, nil
	}
	return cfg.resolvePath(fromManifest), nil
}

// fail prints a dialogue error as diagnostics and turns it into
// errReported; other errors pass through.
func (s *session) fail(w io.Writer, err error) error {
	var de *dialogue.Error
	if !errors.As(err, &de) {
		return err
	}
	pretty := diagRenderer()
	fmt.Fprintf(w, "%s\n", diag.RenderAll(pretty, de.IntoDiagnostics(), s.file.DisplayPath(), s.file.Content))
	return errReported
}

// close persists save variables. It runs even after a runtime error so
// progress made before the error is kept.
func (s *session) close() error {
	if s == nil || s.save == nil {
		return nil
	}
	if err := s.save.Save(); err != nil {
		return fmt.Errorf("saving %s: %w", s.save.Path(), err)
	}
	return nil
}
