package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer puts t on ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer on ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// Start opens a span as a child of the span current in ctx and makes it
// current in the returned context.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	var parent uint64
	if ctx != nil {
		parent, _ = ctx.Value(spanKey{}).(uint64)
	}
	s := Begin(FromContext(ctx), scope, name, parent)
	if s.ID() == 0 {
		return ctx, s
	}
	return context.WithValue(ctx, spanKey{}, s.ID()), s
}
