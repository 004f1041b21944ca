// Package cli implements the canary command tree.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmadhavan/canary/conn"
	"github.com/mmadhavan/canary/internal/config"
	"github.com/mmadhavan/canary/joblog"
	"github.com/mmadhavan/canary/middleware"
)

// app carries state shared by subcommands for one invocation.
type app struct {
	configPath   string
	debug        bool
	legacyWindow bool

	settings *config.Settings
	logger   *slog.Logger
}

// openDriver connects to the configured job log.
func (a *app) openDriver(ctx context.Context) (*joblog.Driver, error) {
	window := a.settings.Window
	if a.legacyWindow {
		window = joblog.WindowLegacy
	}
	return joblog.Open(ctx, a.settings.Redis,
		joblog.WithLogger(a.logger),
		joblog.WithWindowMode(window),
		joblog.WithConnOptions(
			conn.WithLogger(a.logger),
			conn.WithMiddleware(
				middleware.Logging(a.logger),
				middleware.Tracing(),
				middleware.Metrics(),
			),
		),
	)
}

// NewRootCmd builds the canary command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "canary",
		Short:        "Record and drain job detail snapshots in Redis",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if a.debug {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			s, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.settings = s
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: search for canary.yaml)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&a.legacyWindow, "legacy-window", false, "read with the legacy [now - marker, now] range")

	cmd.AddCommand(
		newInsertCmd(a),
		newReadCmd(a),
		newDrainCmd(a),
	)
	return cmd
}
