//go:build integration

package joblog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/mmadhavan/canary"
	"github.com/mmadhavan/canary/conn"
	"github.com/mmadhavan/canary/joblog"
)

// setupRedis starts a Redis container and returns a config pointing at it.
func setupRedis(t *testing.T) canary.Config {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		if termErr := testcontainers.TerminateContainer(container); termErr != nil {
			t.Logf("terminate container: %v", termErr)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	cfg := canary.DefaultConfig()
	cfg.Cluster = []string{host}
	cfg.Port = port.Int()
	return cfg
}

func TestIntegration_ReadWindow(t *testing.T) {
	cfg := setupRedis(t)
	ctx := context.Background()

	d, err := joblog.Open(ctx, cfg, joblog.WithClock(newStepClock().Now))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	for i := 1; i <= 3; i++ {
		if err := d.InsertJobDetails(ctx, "/a", i, nil); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	first, err := d.GetJobDetails(ctx)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	assertCounts(t, decodeCounts(t, first), []int{1, 2, 3})

	if err := d.InsertJobDetails(ctx, "/a", 4, nil); err != nil {
		t.Fatalf("insert 4: %v", err)
	}
	second, err := d.GetJobDetails(ctx)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	assertCounts(t, decodeCounts(t, second), []int{4})
}

func TestIntegration_InsertAfterClose(t *testing.T) {
	cfg := setupRedis(t)
	ctx := context.Background()

	d, err := joblog.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := d.InsertJobDetails(ctx, "/a", 1, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := d.InsertJobDetails(ctx, "/a", 2, nil); !errors.Is(err, canary.ErrConnClosed) {
		t.Fatalf("insert after close = %v, want ErrConnClosed", err)
	}

	fresh, err := conn.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("fresh Open: %v", err)
	}
	defer fresh.Close()

	n, err := fresh.Client().ZCard(ctx, "canary:info").Result()
	if err != nil {
		t.Fatalf("ZCard: %v", err)
	}
	if n != 1 {
		t.Errorf("set size = %d, want 1", n)
	}
}
