package trace

import "context"

type ctxKey struct{}

// frame is what a context knows about tracing: where events go, which span
// is open, and which document is being formatted.
type frame struct {
	tracer   Tracer
	inflight *Inflight
	parent   uint64
	file     string
}

func frameFrom(ctx context.Context) frame {
	if ctx != nil {
		if f, ok := ctx.Value(ctxKey{}).(frame); ok {
			return f
		}
	}
	return frame{tracer: Nop}
}

func withFrame(ctx context.Context, f frame) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, f)
}

// WithTracer attaches t to ctx. A nil t disables tracing below ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	f := frameFrom(ctx)
	f.tracer = t
	return withFrame(ctx, f)
}

// WithSession attaches the session's tracer and its in-flight file set, so
// the heartbeat sees the files opened with StartFile below ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	if s == nil {
		return WithTracer(ctx, Nop)
	}
	f := frameFrom(ctx)
	f.tracer = s.Tracer
	if f.tracer == nil {
		f.tracer = Nop
	}
	f.inflight = s.Inflight
	return withFrame(ctx, f)
}

// fileFrom returns the path of the document being formatted under ctx, or "".
func fileFrom(ctx context.Context) string {
	return frameFrom(ctx).file
}
