package trace

import "context"

// ctxState is what a context carries: the tracer and the innermost span.
type ctxState struct {
	tracer Tracer
	span   uint64
}

type ctxKey struct{}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext returns the tracer of ctx, Nop when none is attached.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer attaches t to ctx, keeping the current span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	st := stateOf(ctx)
	st.tracer = t
	return context.WithValue(ctx, ctxKey{}, st)
}

// CurrentSpan returns the ID of the innermost span started through StartSpan, or 0.
func CurrentSpan(ctx context.Context) uint64 {
	return stateOf(ctx).span
}

// StartSpan begins a span under the current span of ctx and returns a
// context in which the new span is current.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	st := stateOf(ctx)
	span := Begin(st.tracer, scope, name, st.span)
	if span.ID() == 0 {
		return span, ctx
	}
	st.span = span.ID()
	return span, context.WithValue(ctx, ctxKey{}, st)
}
