package cmd

import (
	"github.com/isrusin/rebase/internal/browse"
	"github.com/spf13/cobra"
)

// browseCmd is for inspecting a cluster table interactively.
var browseCmd = &cobra.Command{
	Use:                        "browse [table]",
	Short:                      "Browse a cluster table interactively",
	Run:                        browse.Cmd,
	SuggestionsMinimumDistance: 2,
	Example:                    "  rebase browse nr-proteins.clusters.tsv",
	Long: `
Open a terminal browser over a TAG.clusters.tsv file from
'rebase cluster': a filterable cluster list next to the members and
checksum of the selected cluster.`,
}

// set flags
func init() {
	browseCmd.Flags().StringP("in", "i", "", "cluster table from 'rebase cluster'")

	RootCmd.AddCommand(browseCmd)
}
