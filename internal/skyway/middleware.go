package skyway

import (
	"context"
	"net/http"
)

// Doer issues one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a Doer. The chain keeps cross-cutting request policy
// (bearer injection, expiry mapping) defined once and composed into every
// outgoing call.
type Middleware func(next Doer) Doer

// Chain applies middlewares so the first listed runs outermost.
func Chain(base Doer, middlewares ...Middleware) Doer {
	for i := len(middlewares) - 1; i >= 0; i-- {
		base = middlewares[i](base)
	}
	return base
}

// TokenSource yields the bearer token for the current call; empty means the
// call goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// WithBearer annotates every outgoing request with the session's token.
func WithBearer(source TokenSource) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if token := source.Token(req.Context()); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			return next.Do(req)
		})
	}
}

// WithAuthCheck maps any 401 response to ErrAuthExpired so the policy is
// identical no matter which operation triggered the call.
func WithAuthCheck() Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode == http.StatusUnauthorized {
				resp.Body.Close()
				return nil, ErrAuthExpired
			}
			return resp, nil
		})
	}
}
