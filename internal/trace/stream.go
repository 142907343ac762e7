package trace

import (
	"io"
	"sync"
	"time"
)

// StreamTracer writes every event as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	origin time.Time
	depth  depthTracker
}

// depthTracker maps open spans to their nesting depth for the text format.
type depthTracker map[uint64]int

func (d depthTracker) observe(ev *Event) int {
	depth := 0
	if ev.ParentID != 0 {
		if p, ok := d[ev.ParentID]; ok {
			depth = p + 1
		}
	}
	switch ev.Kind {
	case KindSpanBegin:
		d[ev.SpanID] = depth
	case KindSpanEnd:
		if own, ok := d[ev.SpanID]; ok {
			depth = own
		}
		delete(d, ev.SpanID)
	}
	return depth
}

// NewStreamTracer creates a StreamTracer. FormatAuto falls back to text.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{
		w:      w,
		level:  level,
		format: format,
		origin: time.Now(),
		depth:  make(depthTracker),
	}
}

// Emit writes ev; write errors are dropped so tracing never fails a run.
func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || (!t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	depth := t.depth.observe(ev)
	_, _ = t.w.Write(FormatEvent(ev, t.format, t.origin, depth)) //nolint:errcheck
}

// Flush flushes the writer if it buffers.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes the writer if it implements io.Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Level returns the current tracing level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled returns true if tracing is active.
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
