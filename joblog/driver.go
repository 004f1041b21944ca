// Package joblog implements the append/read job log on top of a closable
// connection: snapshots go into a sorted set scored by insert time, and each
// read returns what was written since the previous read.
//
// The driver is meant for a single consumer. Reads are a check, fetch and
// marker update with no locking; an insert landing mid-read may show up in
// this read or the next.
package joblog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mmadhavan/canary"
	"github.com/mmadhavan/canary/conn"
	"github.com/mmadhavan/canary/snapshot"
)

// Driver records job snapshots and reads back new ones.
type Driver struct {
	session  conn.Commands
	logger   *slog.Logger
	now      func() time.Time
	window   WindowMode
	connOpts []conn.Option
}

func newDriver(opts []Option) *Driver {
	d := &Driver{
		logger: slog.Default(),
		now:    time.Now,
		window: WindowSinceLastRead,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Open connects to the endpoint in cfg and returns a Driver owning the
// connection. Connection failures are returned unchanged.
func Open(ctx context.Context, cfg canary.Config, opts ...Option) (*Driver, error) {
	d := newDriver(opts)
	c, err := conn.Open(ctx, cfg, d.connOpts...)
	if err != nil {
		return nil, err
	}
	d.session = c
	d.logger.Info("job log opened",
		slog.String("addr", cfg.Addr()),
		slog.Int("db", cfg.DB),
		slog.String("window", d.window.String()),
	)
	return d, nil
}

// New returns a Driver over an existing session. The Driver takes ownership
// of the session: Close closes it.
func New(session conn.Commands, opts ...Option) *Driver {
	d := newDriver(opts)
	d.session = session
	return d
}

// Session returns the driver's connection. It never reconnects; after Close
// the returned session refuses every command.
func (d *Driver) Session() conn.Commands { return d.session }

// Close closes the driver's connection.
func (d *Driver) Close() error { return d.session.Close() }

// InsertJobDetails appends a snapshot of the jobs found under path, scored
// with the current time. An unserializable details payload fails before
// any command is sent.
func (d *Driver) InsertJobDetails(ctx context.Context, path string, jobCount int, details any) error {
	s, err := snapshot.New(path, jobCount, details)
	if err != nil {
		return fmt.Errorf("canary/joblog: insert: %w", err)
	}
	entry, err := s.Encode()
	if err != nil {
		return fmt.Errorf("canary/joblog: insert: %w", err)
	}

	score := epoch(d.now())
	if err := d.session.ZAdd(ctx, infoKey, score, entry); err != nil {
		return fmt.Errorf("canary/joblog: insert: %w", err)
	}

	d.logger.DebugContext(ctx, "job details inserted",
		slog.String("path", path),
		slog.Int("job_count", jobCount),
		slog.Float64("score", score),
	)
	return nil
}

// SetLastReadTime overwrites the last-read marker with the current time.
func (d *Driver) SetLastReadTime(ctx context.Context) error {
	return d.setLastRead(ctx, epoch(d.now()))
}

func (d *Driver) setLastRead(ctx context.Context, ts float64) error {
	if err := d.session.Set(ctx, lastReadKey, formatEpoch(ts)); err != nil {
		return fmt.Errorf("canary/joblog: set last read: %w", err)
	}
	return nil
}

// LastReadTime returns the stored marker in epoch seconds, or
// canary.ErrNotFound before the first read.
func (d *Driver) LastReadTime(ctx context.Context) (float64, error) {
	v, err := d.session.Get(ctx, lastReadKey)
	if err != nil {
		return 0, fmt.Errorf("canary/joblog: get last read: %w", err)
	}
	ts, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("canary/joblog: parse last read %q: %w", v, err)
	}
	return ts, nil
}

// GetJobDetails returns the encoded entries written since the previous
// read, in ascending score order, and moves the last-read marker to the
// read time. The first read ever returns the whole history.
//
// A marker ahead of the local clock (clock stepped back, or a skewed
// writer) yields an empty read and the marker is left in place, so it never
// moves backwards.
func (d *Driver) GetJobDetails(ctx context.Context) ([]string, error) {
	now := epoch(d.now())

	minScore, first, err := d.windowStart(ctx, now)
	if err != nil {
		return nil, err
	}

	if d.window == WindowSinceLastRead && minScore > now {
		d.logger.WarnContext(ctx, "last read marker ahead of clock",
			slog.Float64("min_score", minScore),
			slog.Float64("now", now),
		)
		return []string{}, nil
	}

	entries, err := d.session.ZRangeByScore(ctx, infoKey, minScore, now)
	if err != nil {
		return nil, fmt.Errorf("canary/joblog: read: %w", err)
	}

	if err := d.setLastRead(ctx, now); err != nil {
		return nil, err
	}

	d.logger.DebugContext(ctx, "job details read",
		slog.Int("entries", len(entries)),
		slog.Bool("first_read", first),
		slog.Float64("min_score", minScore),
		slog.Float64("max_score", now),
	)
	return entries, nil
}

// GetJobSnapshots is GetJobDetails with the entries decoded.
func (d *Driver) GetJobSnapshots(ctx context.Context) ([]*snapshot.Snapshot, error) {
	entries, err := d.GetJobDetails(ctx)
	if err != nil {
		return nil, err
	}
	snaps, err := snapshot.DecodeAll(entries)
	if err != nil {
		return nil, fmt.Errorf("canary/joblog: decode: %w", err)
	}
	return snaps, nil
}

// windowStart returns the minimum score for a read at now and whether this
// is the first read.
func (d *Driver) windowStart(ctx context.Context, now float64) (float64, bool, error) {
	exists, err := d.session.Exists(ctx, lastReadKey)
	if err != nil {
		return 0, false, fmt.Errorf("canary/joblog: check last read: %w", err)
	}
	if !exists {
		return 0, true, nil
	}

	marker, err := d.LastReadTime(ctx)
	if errors.Is(err, canary.ErrNotFound) {
		// Marker vanished between EXISTS and GET.
		return 0, true, nil
	}
	if err != nil {
		return 0, false, err
	}
	return d.window.lowerBound(now, marker), false, nil
}

// epoch converts t to floating point seconds since the Unix epoch.
func epoch(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

func formatEpoch(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
