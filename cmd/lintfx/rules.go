package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/rules"
)

func newRulesCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the builtin rules and their metadata",
		RunE: func(cmd *cobra.Command, _ []string) error {
			descriptors := make([]core.RuleDescriptor, 0)
			for _, b := range rules.All() {
				descriptors = append(descriptors, b.Descriptor)
			}
			sort.Slice(descriptors, func(i, j int) bool {
				return descriptors[i].ID < descriptors[j].ID
			})

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(descriptors)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSEVERITY\tIMPACT\tCOST\tDESCRIPTION")
			for _, d := range descriptors {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					d.ID, d.DefaultSeverity, d.Impact, d.Cost, d.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output rule metadata as JSON.")
	return cmd
}
