package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mmadhavan/canary/snapshot"
)

// snapshotView is the printable form of a snapshot with the job payload
// decoded, so YAML output shows structure rather than raw bytes.
type snapshotView struct {
	Path     string `json:"path" yaml:"path"`
	Jobs     any    `json:"jobs" yaml:"jobs"`
	JobCount int    `json:"job_count" yaml:"job_count"`
}

func toViews(snaps []*snapshot.Snapshot) ([]snapshotView, error) {
	views := make([]snapshotView, 0, len(snaps))
	for _, s := range snaps {
		var jobs any
		if len(s.Jobs) > 0 {
			if err := json.Unmarshal(s.Jobs, &jobs); err != nil {
				return nil, fmt.Errorf("decode jobs for %s: %w", s.Path, err)
			}
		}
		views = append(views, snapshotView{Path: s.Path, Jobs: jobs, JobCount: s.JobCount})
	}
	return views, nil
}

func printValue(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printSnapshots(w io.Writer, format string, snaps []*snapshot.Snapshot) error {
	views, err := toViews(snaps)
	if err != nil {
		return err
	}
	return printValue(w, format, views)
}

func newReadCmd(a *app) *cobra.Command {
	var (
		decode bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Print the entries written since the last read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}
			ctx := cmd.Context()

			d, err := a.openDriver(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if !decode {
				entries, err := d.GetJobDetails(ctx)
				if err != nil {
					return err
				}
				if entries == nil {
					entries = []string{}
				}
				return printValue(cmd.OutOrStdout(), output, entries)
			}

			snaps, err := d.GetJobSnapshots(ctx)
			if err != nil {
				return err
			}
			return printSnapshots(cmd.OutOrStdout(), output, snaps)
		},
	}

	cmd.Flags().BoolVar(&decode, "decode", false, "decode entries into snapshots")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}
