package auth

import "context"

type contextKey string

const callerContextKey contextKey = "caller"

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID uint
	Email  string
}

// WithCaller stores the authenticated caller in ctx.
func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, c)
}

// CallerFromContext returns the caller, or nil for anonymous requests.
func CallerFromContext(ctx context.Context) *Caller {
	c, _ := ctx.Value(callerContextKey).(*Caller)
	return c
}
