// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// DefaultMirror is the REBASE distribution root that fetch downloads from.
const DefaultMirror = "ftp://ftp.neb.com/pub/rebase"

// SeqsFile is the composite protein sequence file of a REBASE
// distribution, the usual input of the whole pipeline.
const SeqsFile = "protein_seqs.txt"

// Config is the root-level settings struct and is a mix of settings
// available from the command line and application defaults.
type Config struct {
	// the prefix cluster identifiers are built with
	ClusterPrefix string `mapstructure:"cluster-prefix"`

	// the width sequences are wrapped at in fasta outputs
	SequenceWidth int `mapstructure:"sequence-width"`

	// the suffix marking putative protein names
	PutativeTag string `mapstructure:"putative-tag"`

	// the title of the sequence id column of the cluster table
	IDColumn string `mapstructure:"id-column"`

	// the title of the representative column of the cluster table
	ReprColumn string `mapstructure:"repr-column"`

	// the REBASE mirror to download distribution files from
	Mirror string `mapstructure:"mirror"`

	// whether debug logging is on
	Verbose bool `mapstructure:"verbose"`
}

// New returns a Config populated from Viper-bound command line flags.
// Unset fields fall back to the application defaults, so a zero Viper
// state still yields a usable Config.
func New() *Config {
	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatal("failed to decode settings", "err", err)
	}

	if c.ClusterPrefix == "" {
		c.ClusterPrefix = "nr-"
	}
	if c.SequenceWidth < 1 {
		c.SequenceWidth = 80
	}
	if c.PutativeTag == "" {
		c.PutativeTag = "P"
	}
	if c.IDColumn == "" {
		c.IDColumn = "Sequence_ID"
	}
	if c.ReprColumn == "" {
		c.ReprColumn = "Representative"
	}
	if c.Mirror == "" {
		c.Mirror = DefaultMirror
	}

	return c
}
