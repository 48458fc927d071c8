package cmd

import (
	"github.com/isrusin/rebase/internal/rebase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// clusterCmd is for collapsing identical protein sequences into clusters.
var clusterCmd = &cobra.Command{
	Use:                        "cluster [input]",
	Short:                      "Cluster identical protein sequences",
	Run:                        rebase.ClusterCmd,
	SuggestionsMinimumDistance: 2,
	Aliases:                    []string{"uniq"},
	Long: `
Group proteins with byte-identical sequences into clusters and pick a
representative name for each: preferred names win, then non-putative
ones, then the shortest name alphabetically.

Writes TAG.fasta.gz with one representative sequence per cluster and
TAG.clusters.tsv with the name-to-cluster table.`,
}

// set flags
func init() {
	clusterCmd.Flags().StringP("in", "i", "", "input FASTA with protein sequences, \"-\" is stdin")
	clusterCmd.Flags().StringP("out", "o", "", "output tag, the prefix of the emitted files")
	clusterCmd.Flags().StringP("preferred", "p", "", "file with one preferred representative name per line")
	clusterCmd.Flags().StringP("cluster-prefix", "c", "nr-", "prefix of the emitted cluster IDs")
	clusterCmd.Flags().IntP("sequence-width", "w", 80, "line width of the emitted FASTA sequences")
	clusterCmd.Flags().StringP("id-column", "n", "Sequence_ID", "title of the name column in the cluster table")
	clusterCmd.Flags().StringP("repr-column", "r", "Representative", "title of the representative column in the cluster table")
	clusterCmd.Flags().String("putative-tag", "P", "name suffix that marks putative enzymes")

	viper.BindPFlag("cluster-prefix", clusterCmd.Flags().Lookup("cluster-prefix"))
	viper.BindPFlag("sequence-width", clusterCmd.Flags().Lookup("sequence-width"))
	viper.BindPFlag("id-column", clusterCmd.Flags().Lookup("id-column"))
	viper.BindPFlag("repr-column", clusterCmd.Flags().Lookup("repr-column"))
	viper.BindPFlag("putative-tag", clusterCmd.Flags().Lookup("putative-tag"))

	RootCmd.AddCommand(clusterCmd)
}
