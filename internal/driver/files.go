package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"bobbin/internal/diag"
	"bobbin/internal/lexer"
	"bobbin/internal/source"
	"bobbin/internal/token"
	"bobbin/internal/trace"
)

// Ext is the script file extension.
const Ext = ".bobbin"

// ListScripts возвращает отсортированный список всех *.bobbin файлов в директории.
func ListScripts(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// скрытые каталоги (.git и т.п.) пропускаем
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// BuildFile loads path and runs Build on it.
func BuildFile(ctx context.Context, path string, opts Options) (*Result, error) {
	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	return Build(ctx, file, opts), nil
}

// CheckDir checks every script under dir in parallel. jobs <= 0 uses
// GOMAXPROCS. Results come back in path order; a file that cannot be read
// gets a single diagnostic instead of failing the whole run.
func CheckDir(ctx context.Context, dir string, opts Options, jobs int) ([]*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check-dir")
	defer span.End(dir)

	files, err := ListScripts(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if opts.OnFile != nil {
				opts.OnFile(path, nil)
			}
			file, err := source.Load(path)
			if err != nil {
				results[i] = loadFailure(path, err)
			} else {
				results[i] = Check(gctx, file, opts)
			}
			if opts.OnFile != nil {
				opts.OnFile(path, results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadFailure(path string, err error) *Result {
	d := diag.Diagnostic{
		Severity: diag.SevError,
		Message:  fmt.Sprintf("cannot read %s: %v", path, err),
	}
	return &Result{
		File:        source.NewVirtual(path, ""),
		Diagnostics: []diag.Diagnostic{d},
		FailedPhase: "load",
	}
}

// Tokenize scans file to the end, EOF included. Scanner errors stay in the
// stream as token.Error tokens.
func Tokenize(file *source.File) []token.Token {
	var tokens []token.Token
	for tok := range lexer.NewFile(file).Tokens() {
		tokens = append(tokens, tok)
	}
	return tokens
}
