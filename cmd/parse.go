package cmd

import (
	"github.com/isrusin/rebase/internal/rebase"
	"github.com/spf13/cobra"
)

// parseCmd is for converting REBASE distribution files into tables.
var parseCmd = &cobra.Command{
	Use:                        "parse",
	Short:                      "Parse REBASE distribution files",
	SuggestionsMinimumDistance: 2,
	Long: `
Convert REBASE distribution files into FASTA files and entry-TSV
tables that the other commands consume.`,
}

// seqsParseCmd is for splitting a protein sequence file into FASTA and a table.
var seqsParseCmd = &cobra.Command{
	Use:                        "seqs",
	Short:                      "Split a REBASE protein sequence file into FASTA and a TSV table",
	Run:                        rebase.ParseSeqsCmd,
	SuggestionsMinimumDistance: 3,
	Long: `
Split a REBASE protein sequence file (protein_seqs.txt) into TAG.fasta
with the sequences and TAG.tsv with the per-protein annotations parsed
from the record titles.`,
}

// namesParseCmd is for fixing the protein and system annotations of a parsed table.
var namesParseCmd = &cobra.Command{
	Use:                        "names",
	Short:                      "Fix protein types and system names in a parsed table",
	Run:                        rebase.ParseNamesCmd,
	SuggestionsMinimumDistance: 3,
	Long: `
Annotate a table from 'rebase parse seqs' with fixed protein types,
protein categories, and system names. REBASE names unconventional
system components (Mrr, McrBC, Dam, Dnd, Ssp and the like) after the
protein itself, the fixed columns recover the actual types.`,
}

// set flags
func init() {
	seqsParseCmd.Flags().StringP("in", "i", "", "input protein sequence file, \"-\" is stdin")
	seqsParseCmd.Flags().StringP("out", "o", "", "output tag, the prefix of the emitted files")

	namesParseCmd.Flags().StringP("in", "i", "", "input protein table from 'rebase parse seqs'")
	namesParseCmd.Flags().StringP("out", "o", "-", "output table, \"-\" is stdout")

	parseCmd.AddCommand(seqsParseCmd)
	parseCmd.AddCommand(namesParseCmd)

	RootCmd.AddCommand(parseCmd)
}
