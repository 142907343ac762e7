package trace

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	globalSeq   uint64
	globalSpans uint64
)

func nextSeq() uint64 {
	return atomic.AddUint64(&globalSeq, 1)
}

func nextSpanID() uint64 {
	return atomic.AddUint64(&globalSpans, 1)
}

// goroutineID parses the id out of the "goroutine N [...]" stack header.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}

	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}

	gid, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Phase names one step of formatting a document.
type Phase string

const (
	PhaseDecode    Phase = "decode"     // BOM and CRLF handling
	PhaseParse     Phase = "parse"      // lossless syntax tree
	PhaseCargoSort Phase = "cargo_sort" // Cargo.toml key and table order
	PhaseGenerate  Phase = "generate"   // tree to layout items
	PhasePrint     Phase = "print"      // layout resolution
)

// Span is an open begin/end pair. A Span from a disabled tracer is inert,
// but End still releases what StartFile registered.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	gid      uint64
	scope    Scope
	name     string
	file     string
	started  time.Time
	extra    map[string]string
	done     func()
}

func open(f frame, scope Scope, name string) *Span {
	t := f.tracer
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop, started: time.Now()}
	}

	s := &Span{
		tracer:   t,
		id:       nextSpanID(),
		parentID: f.parent,
		gid:      goroutineID(),
		scope:    scope,
		name:     name,
		file:     f.file,
		started:  time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Seq:      nextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		GID:      s.gid,
		Name:     name,
		File:     s.file,
	})
	return s
}

// child returns f with s as the parent of spans opened below it.
func (s *Span) child(f frame) frame {
	if s.id != 0 {
		f.parent = s.id
	}
	return f
}

// StartRun opens the span for one command, such as "fmt" or "check".
func StartRun(ctx context.Context, name string) (context.Context, *Span) {
	f := frameFrom(ctx)
	s := open(f, ScopeRun, name)
	return withFrame(ctx, s.child(f)), s
}

// StartFile opens the span for one path. The returned context carries the
// path for the phases below it, and the heartbeat counts the file as in
// flight until End.
func StartFile(ctx context.Context, path string) (context.Context, *Span) {
	f := frameFrom(ctx)
	f.file = path
	s := open(f, ScopeFile, path)
	s.done = f.inflight.add(path)
	return withFrame(ctx, s.child(f)), s
}

// StartPhase opens the span for one formatting step of the current file.
func StartPhase(ctx context.Context, phase Phase) *Span {
	return open(frameFrom(ctx), ScopePhase, string(phase))
}

// Note records an instant event inside the current span. Notes are emitted
// only at LevelDebug.
func Note(ctx context.Context, name, detail string) {
	f := frameFrom(ctx)
	t := f.tracer
	if t == nil || !t.Enabled() || t.Level() < LevelDebug {
		return
	}
	scope := ScopeRun
	if f.file != "" {
		scope = ScopeFile
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: f.parent,
		GID:      goroutineID(),
		Name:     name,
		File:     f.file,
		Detail:   detail,
	})
}

// End emits SpanEnd event and returns the duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	if s.done != nil {
		s.done()
		s.done = nil
	}
	if s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}

	dur := time.Since(s.started)

	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		GID:      s.gid,
		Name:     s.name,
		File:     s.file,
		Detail:   detail,
		Extra:    s.extra,
	})

	return dur
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}

	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
