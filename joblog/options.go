package joblog

import (
	"log/slog"
	"time"

	"github.com/mmadhavan/canary/conn"
)

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithClock sets the time source used for scores and the last-read marker.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// WithWindowMode selects how GetJobDetails computes its lower bound.
func WithWindowMode(m WindowMode) Option {
	return func(d *Driver) { d.window = m }
}

// WithConnOptions forwards options to conn.Open. Ignored by New.
func WithConnOptions(opts ...conn.Option) Option {
	return func(d *Driver) { d.connOpts = append(d.connOpts, opts...) }
}
