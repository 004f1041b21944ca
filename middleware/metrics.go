package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for canary metrics.
const meterName = "github.com/mmadhavan/canary"

// Metrics returns middleware that records per-command metrics using the
// global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used.
//
// Instruments:
//   - canary.redis.duration (Float64Histogram): command time in seconds,
//     with attributes: op, status ("ok" or "error")
//   - canary.redis.commands (Int64Counter): total commands,
//     with attributes: op, status ("ok" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
func MetricsWithMeter(meter metric.Meter) Middleware {
	duration, dErr := meter.Float64Histogram(
		"canary.redis.duration",
		metric.WithDescription("Duration of store commands in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	commands, cErr := meter.Int64Counter(
		"canary.redis.commands",
		metric.WithDescription("Total number of store commands"),
		metric.WithUnit("{command}"),
	)
	_ = cErr // noop fallback guaranteed by OTel API contract

	return func(ctx context.Context, op Op, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("op", op.Name),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		commands.Add(ctx, 1, attrs)

		return err
	}
}
