// Package trace records phase spans of snep runs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	snep parse --trace=- --trace-level=phase docs/
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: writes buffered events (text or ndjson), flushed on heartbeats
//   - RingTracer: keeps the last N events for dumps after a failure
//   - LogTracer: forwards events to a logrus logger at debug level
//   - Tee: fans out to several tracers (stream + ring)
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopePass events (command, lex, parse,
// render). LevelDetail adds per-file events (ScopeFile). LevelDebug emits
// everything.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "parse")
//	defer span.End("")
package trace
