package rebase

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/isrusin/rebase/config"
)

func Test_writeClusters(t *testing.T) {
	clusters := []Cluster{
		{ID: "nr-0", Repr: "A", Seq: "MAAA", Names: []string{"A", "B"}, CRC: CRC64("MAAA")},
		{ID: "nr-1", Repr: "C", Seq: "MAAB", Names: []string{"C"}, CRC: CRC64("MAAB")},
	}

	type args struct {
		idColumn   string
		reprColumn string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			"default column titles",
			args{"Sequence_ID", "Representative"},
			"#:Sequence_ID\tSequence_length\tRepresentative\tCluster_ID\tCRC64\n" +
				fmt.Sprintf("A\t4\tA\tnr-0\t%016X\n", CRC64("MAAA")) +
				fmt.Sprintf("B\t4\tA\tnr-0\t%016X\n", CRC64("MAAA")) +
				fmt.Sprintf("C\t4\tC\tnr-1\t%016X\n", CRC64("MAAB")),
		},
		{
			"overridden column titles",
			args{"Protein_name", "Cluster_repr"},
			"#:Protein_name\tSequence_length\tCluster_repr\tCluster_ID\tCRC64\n" +
				fmt.Sprintf("A\t4\tA\tnr-0\t%016X\n", CRC64("MAAA")) +
				fmt.Sprintf("B\t4\tA\tnr-0\t%016X\n", CRC64("MAAA")) +
				fmt.Sprintf("C\t4\tC\tnr-1\t%016X\n", CRC64("MAAB")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &config.Config{
				IDColumn:   tt.args.idColumn,
				ReprColumn: tt.args.reprColumn,
			}

			var buf bytes.Buffer
			if err := writeClusters(&buf, clusters, conf); err != nil {
				t.Fatalf("writeClusters() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("writeClusters() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_writeOutputs(t *testing.T) {
	dir := t.TempDir()
	tag := filepath.Join(dir, "nr-test")
	conf := &config.Config{
		SequenceWidth: 80,
		IDColumn:      "Sequence_ID",
		ReprColumn:    "Representative",
	}
	clusters := []Cluster{
		{ID: "nr-0", Repr: "A", Seq: "MAAA", Names: []string{"A", "B"}, CRC: CRC64("MAAA")},
		{ID: "nr-1", Repr: "C", Seq: "MAAB", Names: []string{"C"}, CRC: CRC64("MAAB")},
	}

	if err := writeOutputs(tag, clusters, conf); err != nil {
		t.Fatalf("writeOutputs() error = %v", err)
	}

	in, err := openInput(tag + ".fasta.gz")
	if err != nil {
		t.Fatalf("failed to open the fasta output: %v", err)
	}
	defer in.Close()
	fasta, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("failed to read the fasta output: %v", err)
	}
	if want := ">A\nMAAA\n>C\nMAAB\n"; string(fasta) != want {
		t.Errorf("fasta output = %q, want %q", fasta, want)
	}

	tsv, err := os.ReadFile(tag + ".clusters.tsv")
	if err != nil {
		t.Fatalf("failed to read the cluster table: %v", err)
	}
	want := "#:Sequence_ID\tSequence_length\tRepresentative\tCluster_ID\tCRC64\n" +
		fmt.Sprintf("A\t4\tA\tnr-0\t%016X\n", CRC64("MAAA")) +
		fmt.Sprintf("B\t4\tA\tnr-0\t%016X\n", CRC64("MAAA")) +
		fmt.Sprintf("C\t4\tC\tnr-1\t%016X\n", CRC64("MAAB"))
	if string(tsv) != want {
		t.Errorf("cluster table = %q, want %q", tsv, want)
	}
}
