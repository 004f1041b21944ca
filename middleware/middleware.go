// Package middleware provides composable middleware for store commands.
// Middleware wraps each command synchronously and can observe or
// short-circuit it (log, trace, record metrics, refuse when closed).
package middleware

import "context"

// Op describes a single store command passing through the chain.
type Op struct {
	// Name is the command name, e.g. "zadd" or "zrangebyscore".
	Name string

	// Key is the store key the command targets. Empty for keyless
	// commands such as "ping".
	Key string
}

// Handler is the terminal function that issues the command.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the command being issued, and the
// next handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, op Op, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, tracing, guard) executes as:
//
//	logging → tracing → guard → command
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, op Op, next Handler) error {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, op, prev)
			}
		}
		return h(ctx)
	}
}
