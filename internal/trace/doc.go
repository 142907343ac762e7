// Package trace records what the formatter is doing, span by span.
//
// Tracing is opt-in from the command line:
//
//	tomlfmt fmt --trace=- --trace-level=detail .
//
// Back ends: the nop tracer (disabled), a stream tracer writing each event
// as it happens, a ring tracer keeping the last events in memory for a dump
// on failure, and a multi tracer fanning out to several of them.
//
// Levels select scopes: phase emits the run span and the formatting phases
// (decode, parse, cargo_sort, generate, print), detail adds the per-file
// spans, debug adds notes such as cache hits. The heartbeat names the oldest
// file still being formatted.
//
// Spans travel through context:
//
//	ctx = trace.WithSession(ctx, sess)
//	ctx, file := trace.StartFile(ctx, path)
//	defer file.End("")
//	span := trace.StartPhase(ctx, trace.PhaseParse)
//	defer span.End("")
package trace
