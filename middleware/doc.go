// Package middleware provides composable middleware for store commands.
//
// A [Middleware] is a function that wraps a single store command. Middleware
// are composed into a chain using [Chain] when a connection is built and run
// around every command it issues. They are applied right-to-left: the first
// middleware in the slice is the outermost wrapper.
//
//	// logging → tracing → command
//	chain := middleware.Chain(middleware.Logging(logger), middleware.Tracing())
//
// # Built-in Middleware
//
//   - [Logging] logs command name, key, duration and outcome
//   - [Tracing] wraps the command in an OpenTelemetry span
//   - [Metrics] records per-command duration and outcome counters
//
// The connection's closed-guard is always the innermost link, so outer
// middleware observe commands refused after close as ordinary failures.
package middleware
