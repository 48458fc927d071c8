package cmd

import (
	"github.com/isrusin/rebase/config"
	"github.com/isrusin/rebase/internal/rebase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// fetchCmd is for downloading distribution files from a REBASE mirror.
var fetchCmd = &cobra.Command{
	Use:                        "fetch [file] ... [fileN]",
	Short:                      "Fetch distribution files from a REBASE mirror",
	Run:                        rebase.FetchCmd,
	SuggestionsMinimumDistance: 2,
	Example:                    "  rebase fetch protein_seqs.txt bairoch.txt",
	Long: `
Download REBASE distribution files over FTP or HTTP. Without arguments
the composite protein sequence file is fetched.`,
}

// set flags
func init() {
	fetchCmd.Flags().StringP("mirror", "m", config.DefaultMirror, "base URL of the REBASE mirror")
	fetchCmd.Flags().StringP("dir", "d", ".", "directory for the fetched files")

	viper.BindPFlag("mirror", fetchCmd.Flags().Lookup("mirror"))

	RootCmd.AddCommand(fetchCmd)
}
