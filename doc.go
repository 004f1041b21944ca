// Package canary records job detail snapshots into a Redis sorted set and
// reads back the snapshots written since the previous read.
//
// The log lives under two keys:
//
//	canary:info       sorted set, member = encoded snapshot, score = insert time
//	canary:last_read  string, epoch seconds of the most recent read
//
// # Quick Start
//
//	d, err := joblog.Open(ctx, canary.DefaultConfig())
//	if err != nil { ... }
//	defer d.Close()
//
//	_ = d.InsertJobDetails(ctx, "/a", 3, details)
//	entries, err := d.GetJobDetails(ctx)
//
// # Architecture
//
// The [github.com/mmadhavan/canary/conn] package wraps a go-redis client
// behind a narrow command set that refuses all work once closed. The
// [github.com/mmadhavan/canary/joblog] package builds the append/read log on
// top of it. The root package holds the shared [Config] and sentinel errors.
//
// The log is designed for a single consumer. Concurrent readers each move
// the last-read marker forward independently.
package canary
