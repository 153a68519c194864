package apidoc

import "context"

type contextKey[T any] struct{}

func withValue[T any](ctx context.Context, val T) context.Context {
	return context.WithValue(ctx, contextKey[T]{}, val)
}

func valueOf[T any](ctx context.Context) (T, bool) {
	val, ok := ctx.Value(contextKey[T]{}).(T)
	return val, ok
}

type actingAs string

// WithActingAs stores the identity example data should be resolved for.
// Model providers and transformers read it with ActingAs.
func WithActingAs(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return withValue(ctx, actingAs(id))
}

// ActingAs returns the impersonated identity, if any.
func ActingAs(ctx context.Context) (string, bool) {
	id, ok := valueOf[actingAs](ctx)
	return string(id), ok
}
