package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs each command's outcome. Successful
// commands are logged at debug level so a busy log stays quiet by default.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, op Op, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.ErrorContext(ctx, "store command failed",
				slog.String("op", op.Name),
				slog.String("key", op.Key),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.DebugContext(ctx, "store command",
				slog.String("op", op.Name),
				slog.String("key", op.Key),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
