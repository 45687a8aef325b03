// Package driver runs the compile pipeline over script files for the CLI
// and the language server: load, scan+parse, resolve, compile, with trace
// spans, phase timings and the on-disk chunk cache.
package driver

import (
	"context"
	"errors"

	"fortio.org/safecast"

	"bobbin/internal/ast"
	"bobbin/internal/bytecode"
	"bobbin/internal/compiler"
	"bobbin/internal/diag"
	"bobbin/internal/lexer"
	"bobbin/internal/observ"
	"bobbin/internal/parser"
	"bobbin/internal/similar"
	"bobbin/internal/source"
	"bobbin/internal/symbols"
	"bobbin/internal/trace"
)

// Phase names, shared by trace spans and the timings table.
const (
	PhaseParse   = "scan+parse"
	PhaseResolve = "resolve"
	PhaseCompile = "compile"
	PhaseCache   = "cache"
)

// Options configures one pipeline run. The zero value works: no limit, the
// default matcher, no timings and no cache.
type Options struct {
	MaxDiagnostics int
	Matcher        diag.Matcher
	Timer          *observ.Timer
	Cache          *DiskCache
	// CheckOnly stops after resolve; Build then returns no chunk.
	CheckOnly bool
	// OnFile, when set, is called by CheckDir as each file starts (res is
	// nil) and finishes. Calls come from several goroutines at once.
	OnFile func(path string, res *Result)
}

func (o *Options) matcher() diag.Matcher {
	if o.Matcher == nil {
		return similar.Default()
	}
	return o.Matcher
}

// Result is the outcome for one file. Chunk is nil when any phase failed
// or when only checking.
type Result struct {
	File        *source.File
	Chunk       *bytecode.Chunk
	Diagnostics []diag.Diagnostic
	// FailedPhase names the phase that produced Diagnostics, "" when clean.
	FailedPhase string
	Cached      bool
	// Truncated is set when MaxDiagnostics cut the list.
	Truncated bool
}

// OK reports whether the file made it through every phase.
func (r *Result) OK() bool { return r.FailedPhase == "" }

func runPhase(ctx context.Context, timer *observ.Timer, name string, fn func()) {
	_, span := trace.Start(ctx, trace.ScopePhase, name)
	fn()
	timer.Record(name, span.End(""), "")
}

// Build runs the whole pipeline on file. A cached chunk for the same source
// hash skips the phases entirely; a cache that cannot be read is treated as
// a miss and a failed write is ignored.
func Build(ctx context.Context, file *source.File, opts Options) *Result {
	ctx, span := trace.Start(ctx, trace.ScopeFile, file.DisplayPath())
	res := &Result{File: file}
	defer func() {
		span.WithExtra("phase", res.FailedPhase).End(file.Path)
	}()

	if !opts.CheckOnly && opts.Cache != nil {
		var hit bool
		runPhase(ctx, opts.Timer, PhaseCache, func() {
			res.Chunk, hit, _ = opts.Cache.Get(file.Hash)
		})
		if hit {
			res.Cached = true
			return res
		}
	}

	script, table := analyze(ctx, file, opts, res)
	if !res.OK() || opts.CheckOnly {
		return res
	}

	var err error
	runPhase(ctx, opts.Timer, PhaseCompile, func() {
		res.Chunk, err = compiler.Compile(script, table)
	})
	if err != nil {
		var ce *compiler.CompileError
		if !errors.As(err, &ce) {
			ce = &compiler.CompileError{Message: err.Error()}
		}
		res.Chunk = nil
		res.fail(PhaseCompile, []diag.Diagnostic{ce.Diagnostic(nil)}, opts.MaxDiagnostics)
		return res
	}
	// кеш - best effort
	_ = opts.Cache.Put(file.Hash, file.Path, res.Chunk)
	return res
}

// Check runs scan+parse and resolve only.
func Check(ctx context.Context, file *source.File, opts Options) *Result {
	opts.CheckOnly = true
	return Build(ctx, file, opts)
}

func analyze(ctx context.Context, file *source.File, opts Options, res *Result) (*ast.Script, *symbols.SymbolTable) {
	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		maxErrors = 0
	}

	var (
		script *ast.Script
		perrs  []*parser.ParseError
	)
	runPhase(ctx, opts.Timer, PhaseParse, func() {
		script, perrs = parser.ParseWith(lexer.NewFile(file).Tokens(), parser.Options{MaxErrors: maxErrors})
	})
	if perrs != nil {
		res.fail(PhaseParse, diag.Convert(perrs, &diag.Context{Matcher: opts.matcher()}), opts.MaxDiagnostics)
		return nil, nil
	}

	var (
		table *symbols.SymbolTable
		serr  *symbols.AnalysisError
	)
	runPhase(ctx, opts.Timer, PhaseResolve, func() {
		table, serr = symbols.Analyze(script)
	})
	if serr != nil {
		res.fail(PhaseResolve, serr.Diagnostics(opts.matcher()), opts.MaxDiagnostics)
		return nil, nil
	}
	return script, table
}

// fail records the diagnostics of the failed phase: duplicates dropped
// first, then cut to max.
func (r *Result) fail(phase string, ds []diag.Diagnostic, max int) {
	all := diag.NewBag(0)
	all.AddAll(ds)
	all.Dedup()
	bag := diag.NewBag(max)
	bag.AddAll(all.Items())
	bag.Sort()
	r.FailedPhase = phase
	r.Diagnostics = bag.Items()
	r.Truncated = bag.Len() < all.Len()
}
