package browse

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTable(t *testing.T, table string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "proteins.clusters.tsv")
	if err := os.WriteFile(path, []byte(table), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_loadClusters(t *testing.T) {
	path := writeTable(t, "#:Sequence_ID\tSequence_length\tRepresentative\tCluster_ID\tCRC64\n"+
		"EcoRIP\t4\tEcoRV\tnr-0\t01B8A0E1F9B8C4E2\n"+
		"EcoRV\t4\tEcoRV\tnr-0\t01B8A0E1F9B8C4E2\n"+
		"M.EcoKI\t4\tEcoRV\tnr-0\t01B8A0E1F9B8C4E2\n"+
		"BamHI\t6\tBamHI\tnr-1\t00000000000000AA\n")

	clusters, err := loadClusters(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 2 {
		t.Fatalf("loadClusters() = %d clusters, want 2", len(clusters))
	}

	first := clusters[0]
	if first.id != "nr-0" || first.repr != "EcoRV" || first.length != "4" || first.crc != "01B8A0E1F9B8C4E2" {
		t.Errorf("loadClusters()[0] = %+v, want nr-0 led by EcoRV", *first)
	}
	if want := []string{"EcoRIP", "EcoRV", "M.EcoKI"}; !reflect.DeepEqual(first.names, want) {
		t.Errorf("loadClusters()[0].names = %v, want %v", first.names, want)
	}
	second := clusters[1]
	if second.id != "nr-1" || !reflect.DeepEqual(second.names, []string{"BamHI"}) {
		t.Errorf("loadClusters()[1] = %+v, want nr-1 with BamHI alone", *second)
	}
}

func Test_loadClusters_renamedColumns(t *testing.T) {
	// the reader goes by column position, the titles are free
	path := writeTable(t, "#:Protein_name\tSequence_length\tSeed\tCluster_ID\tCRC64\n"+
		"M.EcoKI\t8\tM.EcoKI\tc0\t0102030405060708\n")

	clusters, err := loadClusters(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 1 {
		t.Fatalf("loadClusters() = %d clusters, want 1", len(clusters))
	}
	if c := clusters[0]; c.id != "c0" || c.repr != "M.EcoKI" || c.length != "8" {
		t.Errorf("loadClusters()[0] = %+v, want c0 led by M.EcoKI", *c)
	}
}

func Test_loadClusters_badTable(t *testing.T) {
	tests := []struct {
		name  string
		table string
	}{
		{
			"no header mark",
			"Sequence_ID\tSequence_length\tRepresentative\tCluster_ID\tCRC64\n",
		},
		{
			"too few columns",
			"#:Sequence_ID\tRepresentative\tCluster_ID\n",
		},
		{
			"short row",
			"#:Sequence_ID\tSequence_length\tRepresentative\tCluster_ID\tCRC64\nEcoRV\t4\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadClusters(writeTable(t, tt.table)); err == nil {
				t.Error("loadClusters() err = nil, want an error")
			}
		})
	}
}

func Test_loadClusters_missingFile(t *testing.T) {
	if _, err := loadClusters(filepath.Join(t.TempDir(), "nope.tsv")); err == nil {
		t.Error("loadClusters() err = nil, want an error")
	}
}

func Test_listItem(t *testing.T) {
	item := listItem{cluster: &cluster{
		id:     "nr-3",
		repr:   "EcoRV",
		length: "245",
		crc:    "E3DCADD69B01ADD1",
		names:  []string{"EcoRIP", "EcoRV"},
	}}

	if got, want := item.Title(), "nr-3  EcoRV"; got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}
	if got, want := item.Description(), "2 proteins    245 aa"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}
	if got, want := item.FilterValue(), "nr-3 EcoRIP EcoRV"; got != want {
		t.Errorf("FilterValue() = %q, want %q", got, want)
	}

	single := listItem{cluster: &cluster{
		id:     "nr-4",
		repr:   "AloIP",
		length: "88",
		names:  []string{"AloIP"},
	}}
	if got, want := single.Description(), "1 protein    88 aa"; got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}
}
