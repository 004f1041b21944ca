package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmadhavan/canary/poller"
	"github.com/mmadhavan/canary/snapshot"
)

func newDrainCmd(a *app) *cobra.Command {
	var (
		schedule string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Drain the log on a schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if schedule == "" {
				schedule = a.settings.Schedule
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d, err := a.openDriver(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			p := poller.New(d, func(_ context.Context, snaps []*snapshot.Snapshot) error {
				return printSnapshots(out, output, snaps)
			}, poller.WithLogger(a.logger))

			if err := p.Start(ctx, schedule); err != nil {
				return err
			}

			<-ctx.Done()
			a.logger.Info("shutting down")

			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := p.Stop(stopCtx); err != nil {
				a.logger.Warn("poller stop", slog.String("error", err.Error()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", `cron schedule, e.g. "@every 30s" (default from config)`)
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}
