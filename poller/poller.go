// Package poller drains the job log on a cron schedule and hands each
// non-empty batch of snapshots to a handler.
//
// Ticks never overlap: a tick that fires while the previous drain is still
// running is skipped, so the log keeps a single consumer.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	cronlib "github.com/robfig/cron/v3"

	"github.com/mmadhavan/canary"
	"github.com/mmadhavan/canary/snapshot"
)

// Reader returns the snapshots written since its previous call.
// *joblog.Driver satisfies this interface.
type Reader interface {
	GetJobSnapshots(ctx context.Context) ([]*snapshot.Snapshot, error)
}

// Handler processes one drained batch.
type Handler func(ctx context.Context, snaps []*snapshot.Snapshot) error

// Option configures a Poller.
type Option func(*Poller)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

// cronParser supports standard 5-field cron and descriptors like "@every 30s".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// ParseSchedule parses a cron expression and returns the schedule.
func ParseSchedule(expr string) (cronlib.Schedule, error) {
	return cronParser.Parse(expr)
}

// Poller runs Tick on a schedule.
type Poller struct {
	reader  Reader
	handler Handler
	logger  *slog.Logger

	mu   sync.Mutex
	cron *cronlib.Cron
}

// New creates a Poller.
func New(reader Reader, handler Handler, opts ...Option) *Poller {
	p := &Poller{
		reader:  reader,
		handler: handler,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start schedules Tick according to expr. ctx is passed to every tick; it
// does not stop the poller, Stop does.
func (p *Poller) Start(ctx context.Context, expr string) error {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return fmt.Errorf("canary/poller: parse schedule %q: %w", expr, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cron != nil {
		return canary.ErrPollerRunning
	}

	c := cronlib.New(cronlib.WithChain(cronlib.SkipIfStillRunning(cronLogger{p.logger})))
	c.Schedule(sched, cronlib.FuncJob(func() {
		if _, tickErr := p.Tick(ctx); tickErr != nil {
			p.logger.Error("job log drain failed", slog.String("error", tickErr.Error()))
		}
	}))
	c.Start()
	p.cron = c

	p.logger.Info("poller started", slog.String("schedule", expr))
	return nil
}

// Stop halts scheduling and waits for a running tick to finish, or for ctx
// to be done.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	c := p.cron
	p.cron = nil
	p.mu.Unlock()

	if c == nil {
		return canary.ErrPollerNotRunning
	}

	select {
	case <-c.Stop().Done():
		p.logger.Info("poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick drains the log once and passes a non-empty batch to the handler.
// It returns the number of snapshots drained.
func (p *Poller) Tick(ctx context.Context) (int, error) {
	snaps, err := p.reader.GetJobSnapshots(ctx)
	if err != nil {
		return 0, fmt.Errorf("canary/poller: drain: %w", err)
	}
	if len(snaps) == 0 {
		p.logger.Debug("job log empty")
		return 0, nil
	}

	if err := p.handler(ctx, snaps); err != nil {
		return len(snaps), fmt.Errorf("canary/poller: handle batch: %w", err)
	}
	p.logger.Debug("job log drained", slog.Int("snapshots", len(snaps)))
	return len(snaps), nil
}

// cronLogger adapts slog to the cron library's logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
