// Package cmd is for command line interactions with the rebase application
package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "rebase",
	Short: `Curate REBASE protein collections.
Fetch distribution files, split them into FASTA and annotation tables,
and collapse identical sequences into clusters`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// set flags
func init() {
	RootCmd.PersistentFlags().Bool("verbose", false, "log per-record diagnostics")
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
}
