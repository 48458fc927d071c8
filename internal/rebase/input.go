package rebase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/isrusin/rebase/config"
	"github.com/spf13/cobra"
)

// Flags contains parsed cobra flags like "in", "out", "preferred" that are
// shared between commands.
type Flags struct {
	// the path of the file to read records from, "-" for stdin
	in string

	// the tag output file names are built from
	tag string

	// the path of the preference list, empty for none
	prefs string
}

// inputParser contains methods for parsing flags from the input &cobra.Command.
type inputParser struct{}

// NewFlags makes a new flags object manually. for testing.
func NewFlags(in, tag, prefs string) (*Flags, *config.Config) {
	c := config.New()
	p := inputParser{}

	if tag == "" {
		tag = p.deriveTag(in)
	}

	return &Flags{in: in, tag: tag, prefs: prefs}, c
}

// parseClusterFlags gathers the in path, output tag and preference list
// path from a cobra cmd object. Returns Flags and a Config for Dedupe.
func parseClusterFlags(cmd *cobra.Command, args []string) (*Flags, *config.Config) {
	var err error
	fs := &Flags{}
	p := inputParser{}
	c := config.New()

	if fs.in, err = cmd.Flags().GetString("in"); fs.in == "" || err != nil {
		if len(args) > 0 {
			fs.in = args[0]
		} else if fs.in, err = p.guessInput(); err != nil {
			cmd.Help()
			log.Fatal(err)
		}
	}

	if fs.tag, err = cmd.Flags().GetString("out"); fs.tag == "" || err != nil {
		fs.tag = p.deriveTag(fs.in)
	}

	fs.prefs, _ = cmd.Flags().GetString("preferred")

	return fs, c
}

// parseSplitFlags gathers the in path and output tag for the seqs splitting
// command. The default tag is the input path itself.
func parseSplitFlags(cmd *cobra.Command, args []string) (*Flags, *config.Config) {
	var err error
	fs := &Flags{}
	c := config.New()

	if fs.in, err = cmd.Flags().GetString("in"); fs.in == "" || err != nil {
		if len(args) > 0 {
			fs.in = args[0]
		} else {
			cmd.Help()
			log.Fatal("no input file")
		}
	}

	if fs.tag, err = cmd.Flags().GetString("out"); fs.tag == "" || err != nil {
		if fs.tag = fs.in; fs.tag == "-" {
			fs.tag = "stdin"
		}
	}

	return fs, c
}

// parseNamesFlags gathers the in and out table paths for the annotation
// fixing command. The default output is stdout.
func parseNamesFlags(cmd *cobra.Command, args []string) (*Flags, *config.Config) {
	var err error
	fs := &Flags{}
	c := config.New()

	if fs.in, err = cmd.Flags().GetString("in"); fs.in == "" || err != nil {
		if len(args) > 0 {
			fs.in = args[0]
		} else {
			cmd.Help()
			log.Fatal("no input table")
		}
	}

	if fs.tag, err = cmd.Flags().GetString("out"); fs.tag == "" || err != nil {
		fs.tag = "-"
	}

	return fs, c
}

// guessInput returns the first fasta file in the current directory. Is used
// if the user hasn't specified an input file.
func (p *inputParser) guessInput() (in string, err error) {
	dir, _ := filepath.Abs(".")
	files, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		name := strings.TrimSuffix(file.Name(), ".gz")
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".fa" || ext == ".fasta" || ext == ".faa" {
			return file.Name(), nil
		}
	}

	return "", fmt.Errorf("failed: no input argument set and no fasta file found in %s", dir)
}

// deriveTag builds the default output tag of the clustering command: the
// base name of the input without its .fa* extension behind a "nr-" marker.
// Stdin gets a literal "stdin" name.
func (p *inputParser) deriveTag(in string) string {
	name := in
	if name == "-" {
		name = "stdin"
	}
	name = filepath.Base(name)
	if i := strings.LastIndex(name, ".fa"); i >= 0 {
		name = name[:i]
	}
	return "nr-" + name
}
