package conn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/mmadhavan/canary"
	"github.com/mmadhavan/canary/middleware"
)

// Commands is the command set the job log issues against the backing store.
type Commands interface {
	// ZAdd adds member to the sorted set at key with the given score.
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRangeByScore returns the members of the sorted set at key with a
	// score in [minScore, maxScore], in ascending score order.
	ZRangeByScore(ctx context.Context, key string, minScore, maxScore float64) ([]string, error)

	// Get returns the string value at key, or canary.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites the string value at key. The value never expires.
	Set(ctx context.Context, key, value string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error

	// Close releases the connection. Later commands fail with
	// canary.ErrConnClosed.
	Close() error
}

// Compile-time interface check.
var _ Commands = (*Conn)(nil)

// Option configures a Conn.
type Option func(*Conn)

// WithMiddleware appends middleware run around every command. The first
// middleware given is the outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Conn) { c.mws = append(c.mws, mws...) }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Conn) { c.logger = l }
}

// Conn is a closable wrapper around a go-redis client.
type Conn struct {
	client redis.UniversalClient
	logger *slog.Logger
	mws    []middleware.Middleware
	chain  middleware.Middleware
	closed atomic.Bool
}

// Open connects to the single endpoint named by cfg and verifies it with a
// PING. There is no retry: a dial or ping failure is returned as is.
func Open(ctx context.Context, cfg canary.Config, opts ...Option) (*Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr(),
		DB:   cfg.DB,
	})
	c := New(client, opts...)
	if err := c.Ping(ctx); err != nil {
		_ = client.Close() //nolint:errcheck // ping error takes precedence
		return nil, fmt.Errorf("canary/conn: open %s db %d: %w", cfg.Addr(), cfg.DB, err)
	}

	c.logger.Debug("connection opened", slog.String("addr", cfg.Addr()), slog.Int("db", cfg.DB))
	return c, nil
}

// New wraps an existing client. The Conn takes ownership of the client:
// Close closes it.
func New(client redis.UniversalClient, opts ...Option) *Conn {
	c := &Conn{client: client, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	c.chain = middleware.Chain(append(c.mws, c.guard)...)
	return c
}

// guard refuses every command once the Conn is closed.
func (c *Conn) guard(ctx context.Context, _ middleware.Op, next middleware.Handler) error {
	if c.closed.Load() {
		return canary.ErrConnClosed
	}
	return next(ctx)
}

func (c *Conn) do(ctx context.Context, name, key string, fn middleware.Handler) error {
	return c.chain(ctx, middleware.Op{Name: name, Key: key}, fn)
}

// Close marks the Conn closed and disconnects the underlying client.
// Closing an already closed Conn is a no-op.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("canary/conn: close: %w", err)
	}
	c.logger.Debug("connection closed")
	return nil
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool { return c.closed.Load() }

// Client returns the underlying go-redis client.
func (c *Conn) Client() redis.UniversalClient { return c.client }

// ZAdd implements Commands.
func (c *Conn) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return c.do(ctx, "zadd", key, func(ctx context.Context) error {
		return c.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
	})
}

// ZRangeByScore implements Commands.
func (c *Conn) ZRangeByScore(ctx context.Context, key string, minScore, maxScore float64) ([]string, error) {
	var members []string
	err := c.do(ctx, "zrangebyscore", key, func(ctx context.Context) error {
		var err error
		members, err = c.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
			Min: formatScore(minScore),
			Max: formatScore(maxScore),
		}).Result()
		return err
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Get implements Commands.
func (c *Conn) Get(ctx context.Context, key string) (string, error) {
	var val string
	err := c.do(ctx, "get", key, func(ctx context.Context) error {
		var err error
		val, err = c.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return canary.ErrNotFound
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set implements Commands.
func (c *Conn) Set(ctx context.Context, key, value string) error {
	return c.do(ctx, "set", key, func(ctx context.Context) error {
		return c.client.Set(ctx, key, value, 0).Err()
	})
}

// Exists implements Commands.
func (c *Conn) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := c.do(ctx, "exists", key, func(ctx context.Context) error {
		var err error
		n, err = c.client.Exists(ctx, key).Result()
		return err
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping implements Commands.
func (c *Conn) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", "", func(ctx context.Context) error {
		return c.client.Ping(ctx).Err()
	})
}

// formatScore renders a score bound with the shortest exact representation.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
