package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newInsertCmd(a *app) *cobra.Command {
	var (
		path    string
		count   int
		details string
	)

	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Append a job snapshot to the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			d, err := a.openDriver(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.InsertJobDetails(ctx, path, count, json.RawMessage(details)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d jobs under %s\n", count, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "path the jobs were discovered under")
	cmd.Flags().IntVar(&count, "count", 0, "number of jobs")
	cmd.Flags().StringVar(&details, "details", "null", "job details as JSON")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}
