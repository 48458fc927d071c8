// Package rebase curates REBASE protein collections. It splits the
// distribution's composite sequence files into fasta and metadata tables,
// clusters byte-identical sequences under stable representatives, and fixes
// protein annotations from REBASE naming patterns.
package rebase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/isrusin/rebase/config"
	"github.com/spf13/cobra"
)

// Cluster is one group of records sharing an identical sequence.
type Cluster struct {
	// ID is the assigned cluster identifier, prefix + rank
	ID string

	// Repr is the representative record name the cluster is keyed by
	Repr string

	// Seq is the shared sequence, byte for byte as read
	Seq string

	// Names are the member record names, ascending, without duplicates
	Names []string

	// CRC is the CRC-64 digest of the uppercased sequence
	CRC uint64
}

// ClusterCmd runs sequence clustering using a cobra command's flags.
func ClusterCmd(cmd *cobra.Command, args []string) {
	if _, err := Dedupe(parseClusterFlags(cmd, args)); err != nil {
		log.Fatal(err)
	}
}

// Dedupe clusters the identical sequences of the input file and writes the
// representative fasta and membership table artifacts. CD-HIT is
// surprisingly inefficient for this particular task, and it cannot prefer
// non-putative proteins as cluster representatives.
func Dedupe(flags *Flags, conf *config.Config) ([]Cluster, error) {
	in, err := openInput(flags.in)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", flags.in, err)
	}

	seqs, err := LoadSeqs(in)
	in.Close()
	if err != nil {
		return nil, err
	}

	preferred, err := LoadPreferred(flags.prefs)
	if err != nil {
		return nil, err
	}

	clusters := BuildClusters(seqs, preferred, conf)
	if err := writeOutputs(flags.tag, clusters, conf); err != nil {
		return nil, err
	}

	names := 0
	for _, cl := range clusters {
		names += len(cl.Names)
	}
	log.Info("clustered sequences", "names", names, "clusters", len(clusters), "tag", flags.tag)

	return clusters, nil
}

// BuildClusters turns the sequence to names grouping into clusters with a
// representative, a checksum, and a rank-derived identifier each. The rank
// order puts larger clusters first and breaks ties by representative name,
// so identifiers do not depend on input order.
func BuildClusters(seqs map[string][]string, preferred map[string]bool, conf *config.Config) []Cluster {
	clusters := make([]Cluster, 0, len(seqs))
	for seq, names := range seqs {
		names = sortedUnique(names)
		clusters = append(clusters, Cluster{
			Repr:  SelectRepr(names, preferred, conf.PutativeTag),
			Seq:   seq,
			Names: names,
			CRC:   CRC64(seq),
		})
	}

	// larger first, then representative, then the defensive tiebreakers.
	// representatives are unique, so length and checksum never decide.
	sort.Slice(clusters, func(i, j int) bool {
		ci, cj := &clusters[i], &clusters[j]
		if len(ci.Names) != len(cj.Names) {
			return len(ci.Names) > len(cj.Names)
		}
		if ci.Repr != cj.Repr {
			return ci.Repr < cj.Repr
		}
		if len(ci.Seq) != len(cj.Seq) {
			return len(ci.Seq) < len(cj.Seq)
		}
		return ci.CRC < cj.CRC
	})

	for i := range clusters {
		clusters[i].ID = conf.ClusterPrefix + strconv.Itoa(i)
	}

	return clusters
}

// SelectRepr picks the representative of a cluster from its member names.
// Preferred members win outright. Otherwise members without the putative
// suffix are favored, and the shortest name, ties broken alphabetically,
// is chosen from whichever candidate set is left.
func SelectRepr(names []string, preferred map[string]bool, putativeTag string) string {
	var candidates []string
	for _, nm := range names {
		if preferred[nm] {
			candidates = append(candidates, nm)
		}
	}

	if len(candidates) == 0 {
		for _, nm := range names {
			if !strings.HasSuffix(nm, putativeTag) {
				candidates = append(candidates, nm)
			}
		}
	}
	if len(candidates) == 0 {
		candidates = names
	}

	best := candidates[0]
	for _, nm := range candidates[1:] {
		if len(nm) < len(best) || (len(nm) == len(best) && nm < best) {
			best = nm
		}
	}
	return best
}

// sortedUnique sorts names ascending and drops duplicates in place.
func sortedUnique(names []string) []string {
	sort.Strings(names)
	uniq := names[:0]
	for i, nm := range names {
		if i == 0 || nm != names[i-1] {
			uniq = append(uniq, nm)
		}
	}
	return uniq
}
