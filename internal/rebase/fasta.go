package rebase

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// maxLineSize bounds a single input line. REBASE distributes sequences
// wrapped well below this, but concatenated one-line fasta exports exist.
const maxLineSize = 8 * 1024 * 1024

// LoadSeqs reads fasta records from r into a mapping from each distinct
// sequence to the names that share it. The name of a record is the first
// whitespace-delimited token of its header. Sequences are compared byte for
// byte, exactly as read. Records whose assembled sequence is empty are
// skipped with a warning, and lines before the first header are ignored.
func LoadSeqs(r io.Reader) (map[string][]string, error) {
	seqs := make(map[string][]string)

	var name string
	var seq strings.Builder
	inRecord := false

	flush := func() {
		if !inRecord {
			return
		}
		if seq.Len() == 0 {
			log.Warn("record has no sequence", "name", name)
			return
		}
		s := seq.String()
		seqs[s] = append(seqs[s], name)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			name = headerName(line)
			seq.Reset()
			inRecord = true
		} else if inRecord {
			seq.WriteString(strings.TrimSpace(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sequences: %v", err)
	}
	flush()

	return seqs, nil
}

// headerName extracts the record name from a fasta header line.
func headerName(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimLeft(fields[0], ">")
}

// writeFasta writes one record per cluster, keyed by its representative and
// wrapped at width, in ascending representative order.
func writeFasta(w io.Writer, clusters []Cluster, width int) error {
	sorted := make([]Cluster, len(clusters))
	copy(sorted, clusters)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Repr < sorted[j].Repr
	})

	bw := bufio.NewWriter(w)
	for _, cl := range sorted {
		fmt.Fprintf(bw, ">%s\n", cl.Repr)
		for start := 0; start < len(cl.Seq); start += width {
			end := start + width
			if end > len(cl.Seq) {
				end = len(cl.Seq)
			}
			fmt.Fprintln(bw, cl.Seq[start:end])
		}
	}
	return bw.Flush()
}
