package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oxhq/lintfx/config"
	"github.com/oxhq/lintfx/db"
)

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent persisted analysis runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			dsn := cfg.DatabaseURL
			if dsn == "" {
				dsn = "lintfx.db"
			}
			conn, err := db.Connect(dsn, cfg.Debug)
			if err != nil {
				return err
			}

			runs, err := db.RecentRuns(conn, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tROOT\tSTARTED\tFILES\tFINDINGS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
					run.ID, run.RootPath, run.StartedAt.Format("2006-01-02 15:04:05"),
					run.FilesScanned, run.FindingCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list.")
	return cmd
}
