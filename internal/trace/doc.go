// Package trace records what the bobbin toolchain is doing: which command
// ran, which phases ran for which script and how long each took.
//
//	bobbin check --trace=- --trace-level=detail scripts/
//
// Events go to a stream (text or NDJSON), to an in-memory ring that is
// dumped only when the command fails, or to both. The level picks the
// finest scope kept: phase records commands and pipeline phases, detail
// adds a span per checked file.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePhase, "parse")
//	defer span.End("")
package trace
