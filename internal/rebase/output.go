package rebase

import (
	"fmt"
	"io"
	"strconv"

	"github.com/isrusin/rebase/config"
	"github.com/isrusin/rebase/internal/etsv"
)

// writeOutputs creates the two clustering artifacts under the output tag:
// TAG.fasta.gz with one record per cluster and TAG.clusters.tsv with one
// row per member name. Either both files are complete or an error is
// returned.
func writeOutputs(tag string, clusters []Cluster, conf *config.Config) error {
	fasta := tag + ".fasta.gz"
	out, err := createOutput(fasta)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", fasta, err)
	}
	if err := writeFasta(out, clusters, conf.SequenceWidth); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %v", fasta, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %v", fasta, err)
	}

	tsv := tag + ".clusters.tsv"
	out, err = createOutput(tsv)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", tsv, err)
	}
	if err := writeClusters(out, clusters, conf); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %v", tsv, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %v", tsv, err)
	}

	return nil
}

// writeClusters writes the cluster membership table: one row per member
// name, clusters in rank order, names ascending within each cluster.
func writeClusters(w io.Writer, clusters []Cluster, conf *config.Config) error {
	tw := etsv.NewWriter(w, []etsv.Field{
		{Key: "name", Title: conf.IDColumn},
		{Key: "length", Title: "Sequence_length"},
		{Key: "repr", Title: conf.ReprColumn},
		{Key: "cluster", Title: "Cluster_ID"},
		{Key: "crc", Title: "CRC64"},
	})

	for _, cl := range clusters {
		entry := map[string]string{
			"length":  strconv.Itoa(len(cl.Seq)),
			"repr":    cl.Repr,
			"cluster": cl.ID,
			"crc":     fmt.Sprintf("%016X", cl.CRC),
		}
		for _, nm := range cl.Names {
			entry["name"] = nm
			if err := tw.Write(entry); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}
