// Package conn wraps a go-redis client behind the narrow command set the job
// log needs, and refuses every command once the wrapper has been closed.
//
// Each command runs through a middleware chain assembled once at
// construction. The innermost link is the closed-guard: after [Conn.Close]
// it returns [canary.ErrConnClosed] and the command never reaches the
// network.
//
//	c, err := conn.Open(ctx, canary.DefaultConfig(),
//	    conn.WithMiddleware(middleware.Tracing()),
//	)
//	if err != nil { ... }
//	defer c.Close()
//
// A closed Conn is never usable again; open a new one instead.
package conn
