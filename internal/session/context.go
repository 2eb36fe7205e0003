package session

import "context"

type tokenKey struct{}

// WithToken returns a context carrying the session's bearer token. The
// token travels explicitly with each call instead of through an ambient
// global, so every network-call site sees exactly the session it serves.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token for the current call, or the
// empty string for an unauthenticated one.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// ContextSource reads the bearer token from the request context. It is the
// TokenSource the backend client composes into its middleware chain.
type ContextSource struct{}

func (ContextSource) Token(ctx context.Context) string {
	return TokenFromContext(ctx)
}
