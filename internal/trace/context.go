package trace

import "context"

type ctxKey struct{}

// WithTracer returns a context carrying t, retrievable with FromContext.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext extracts the Tracer stored in ctx, or Nop if none was set.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}
