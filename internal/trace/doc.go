// Package trace records what the fixer and the diagnostic driver are doing.
//
// Spans mark driver runs, passes (parse, lint, populate, materialise) and
// per-document work. Events go to a stream sink (zerolog, text or ndjson),
// to an in-memory ring, or to both.
//
//	mend fix --trace=- --trace-level=detail ./src
//
// Tracers travel through the pipeline inside the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "populate")
//	defer span.End("")
package trace
