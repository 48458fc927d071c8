package rebase

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/isrusin/rebase/internal/etsv"
	"github.com/spf13/cobra"
)

// The REBASE sequence format is close to fasta, except that sequences end
// with a "<>" mark and title lines carry tab-separated key:value pairs.
// The title keys differ between distribution files. REBASE, EnzType and
// GenBank are obligatory and get parsed into separate columns, all other
// keys are passed through under a _raw column title.

// enzTypeRe splits an EnzType value into the optional putative,
// system type and methyl-directed qualifiers and the activity itself.
var enzTypeRe = regexp.MustCompile(
	`^(?:(putative)\s)?(?:(Type\s[IVG]+)\s)?(?:(methyl-directed)\s)?(.+)`,
)

// nameRe splits a REBASE value into a complex name and an optional
// parenthesized protein name. A second parenthesized RM.* alias is
// allowed and dropped.
var nameRe = regexp.MustCompile(
	`^([^ ]+)(?:\s\(([^ ]+)\))?(?:\s\((RM\..+)\))?`,
)

// activities maps EnzType activity wordings to protein type codes.
var activities = map[string]string{
	"methyltransferase":                    "M",
	"restriction enzyme":                   "R",
	"restriction enzyme/methyltransferase": "RM",
	"specificity subunit":                  "S",
	"control protein":                      "C",
	"nicking endonuclease":                 "V",
	"helicase domain protein":              "H",
	"orphan methyltransferase":             "M_orphan",
	"homing endonuclease":                  "R_homing",
	"methyltransferasespecificity subunit": "M",
}

// seqColumns are the fixed leading columns of the protein table. The
// remaining title keys follow alphabetically under _raw titles.
var seqColumns = []string{
	"REBASE_name", "Complex_name",
	"Sequence_AC", "Sequence_source",
	"System_type", "Protein_type", "Putative",
}

// ParseSeqsCmd runs REBASE sequence file splitting using a cobra command's
// flags.
func ParseSeqsCmd(cmd *cobra.Command, args []string) {
	flags, _ := parseSplitFlags(cmd, args)
	if err := ParseSeqs(flags); err != nil {
		log.Fatal(err)
	}
}

// ParseSeqs splits a REBASE sequence file into the TAG.fasta file with
// bare sequences and the TAG.tsv protein table with everything else.
func ParseSeqs(flags *Flags) error {
	in, err := openInput(flags.in)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", flags.in, err)
	}
	defer in.Close()

	fastaPath := flags.tag + ".fasta"
	fasta, err := createOutput(fastaPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", fastaPath, err)
	}

	tsvPath := flags.tag + ".tsv"
	tsv, err := createOutput(tsvPath)
	if err != nil {
		fasta.Close()
		return fmt.Errorf("failed to create %s: %v", tsvPath, err)
	}

	proteins, err := parseSeqs(in, fasta, tsv)
	if cerr := fasta.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to write %s: %v", fastaPath, cerr)
	}
	if cerr := tsv.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to write %s: %v", tsvPath, cerr)
	}
	if err != nil {
		return err
	}

	log.Info("split sequence file", "proteins", proteins, "tag", flags.tag)

	return nil
}

// parseSeqs reads REBASE sequence records from r, writing sequences to
// fasta and title data to tsv. Returns the number of parsed proteins.
func parseSeqs(r io.Reader, fasta, tsv io.Writer) (int, error) {
	entries := make(map[string]map[string]string)
	bw := bufio.NewWriter(fasta)

	var name string
	var seqLines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			if name != "" {
				writeRebaseSeq(bw, name, seqLines)
			}
			seqLines = nil

			pairs, err := parseHeader(line)
			if err != nil {
				return 0, err
			}
			name = pairs["REBASE_name"]
			delete(pairs, "REBASE_name")
			if _, dup := entries[name]; dup {
				return 0, fmt.Errorf("failed to parse %s: repeated REBASE name", name)
			}
			entries[name] = pairs
		} else if name != "" {
			seqLines = append(seqLines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read sequence file: %v", err)
	}
	if name != "" {
		writeRebaseSeq(bw, name, seqLines)
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write sequences: %v", err)
	}

	if err := writeSeqEntries(tsv, entries); err != nil {
		return 0, err
	}

	return len(entries), nil
}

// parseHeader parses a REBASE title line into column values. The REBASE,
// EnzType and GenBank pairs are required and replaced by their parsed
// columns, including the REBASE_name key.
func parseHeader(line string) (map[string]string, error) {
	pairs := make(map[string]string)
	for _, pair := range strings.Split(strings.TrimPrefix(line, ">"), "\t") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("failed to parse title pair %q", pair)
		}
		pairs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	for _, required := range []string{"REBASE", "EnzType", "GenBank"} {
		if _, ok := pairs[required]; !ok {
			return nil, fmt.Errorf("failed to parse title: no %s pair", required)
		}
	}

	named, err := parseName(pairs["REBASE"])
	if err != nil {
		return nil, err
	}
	delete(pairs, "REBASE")

	typed, err := parseEnzType(pairs["EnzType"])
	if err != nil {
		return nil, err
	}
	delete(pairs, "EnzType")

	sourced := parseAC(pairs["GenBank"])
	delete(pairs, "GenBank")

	for _, parsed := range []map[string]string{named, typed, sourced} {
		for key, value := range parsed {
			pairs[key] = value
		}
	}

	return pairs, nil
}

// parseName splits a REBASE value into the protein and complex names.
// A lone token is the protein name itself. A parenthesized alternative
// that looks unrelated to the complex name is logged and dropped.
func parseName(nameStr string) (map[string]string, error) {
	m := nameRe.FindStringSubmatch(nameStr)
	if m == nil {
		return nil, fmt.Errorf("failed to parse enzyme name %q", nameStr)
	}

	complexName, name := m[1], m[2]
	if name == "" {
		name, complexName = complexName, ""
	} else {
		diff := len(name) - len(complexName)
		if diff < 0 {
			diff = -diff
		}
		if strings.HasPrefix(name, "RM.") || diff > 2 {
			log.Debug("alternative name dropped", "name", complexName, "alternative", name)
			name, complexName = complexName, ""
		}
	}

	return map[string]string{"REBASE_name": name, "Complex_name": complexName}, nil
}

// parseEnzType maps an EnzType value to the Putative, Protein_type and
// System_type columns. Orphan and homing activities become system types
// of their own, and methyl-directed Type II systems turn into Type IIM.
func parseEnzType(typeStr string) (map[string]string, error) {
	m := enzTypeRe.FindStringSubmatch(typeStr)
	if m == nil {
		return nil, fmt.Errorf("failed to parse EnzType %q", typeStr)
	}

	putative := "no"
	if m[1] != "" {
		putative = "yes"
	}
	sysType := m[2]
	if sysType == "" {
		sysType = "-"
	}

	activity := strings.TrimSpace(m[4])
	protType, ok := activities[activity]
	if !ok {
		return nil, fmt.Errorf("failed to parse EnzType %q: unknown activity %q", typeStr, activity)
	}
	if strings.Contains(activity, "methyltransferasespecificity") {
		log.Warn("strange activity, treated as MTase", "activity", activity)
	}

	switch protType {
	case "M_orphan":
		sysType, protType = "Orphan M", "M"
	case "R_homing":
		sysType, protType = "Homing", "R"
	}
	if m[3] != "" && sysType == "Type II" {
		sysType = "Type IIM"
	}

	return map[string]string{
		"Putative":     putative,
		"Protein_type": protType,
		"System_type":  sysType,
	}, nil
}

// parseAC maps a GenBank value to the Sequence_AC and Sequence_source
// columns, deducing the source database from the accession shape.
func parseAC(acStr string) map[string]string {
	source := "INSDC"
	if strings.HasPrefix(acStr, "NEB") {
		source = "NEB"
	} else if strings.Contains(acStr, "_") {
		source = "RefSeq"
	}
	return map[string]string{"Sequence_AC": acStr, "Sequence_source": source}
}

// writeRebaseSeq writes one fasta record, dropping the "<>" terminators
// and internal spaces. Lines with anything but capital residue letters
// left after the cleanup are skipped. Records with no sequence lines get
// no fasta record at all, only their table entry.
func writeRebaseSeq(w *bufio.Writer, name string, seqLines []string) {
	var prepared []string
	for _, raw := range seqLines {
		frag := strings.TrimSpace(raw)
		frag = strings.ReplaceAll(frag, "<>", "")
		frag = strings.ReplaceAll(frag, " ", "")
		if !isResidues(frag) {
			log.Warn("skip bad sequence line", "name", name, "line", raw)
			continue
		}
		if frag != "" {
			prepared = append(prepared, frag)
		}
	}

	if len(prepared) == 0 {
		log.Warn("record has no sequence", "name", name)
		return
	}

	fmt.Fprintf(w, ">%s\n", name)
	for _, frag := range prepared {
		fmt.Fprintln(w, frag)
	}
}

// isResidues reports whether s consists of capital letters only.
func isResidues(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// writeSeqEntries writes the protein table: the fixed columns first, then
// every title key seen in any entry, alphabetically, under a _raw title.
// Rows are sorted by protein name.
func writeSeqEntries(w io.Writer, entries map[string]map[string]string) error {
	fixed := make(map[string]bool, len(seqColumns))
	for _, col := range seqColumns {
		fixed[col] = true
	}

	rawSet := make(map[string]bool)
	for _, pairs := range entries {
		for col := range pairs {
			if !fixed[col] {
				rawSet[col] = true
			}
		}
	}
	rawColumns := make([]string, 0, len(rawSet))
	for col := range rawSet {
		rawColumns = append(rawColumns, col)
	}
	sort.Strings(rawColumns)

	fields := make([]etsv.Field, 0, len(seqColumns)+len(rawColumns))
	for _, col := range seqColumns {
		fields = append(fields, etsv.Field{Key: col, Title: col})
	}
	for _, col := range rawColumns {
		fields = append(fields, etsv.Field{Key: col, Title: col + "_raw"})
	}
	tw := etsv.NewWriter(w, fields)

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := entries[name]
		entry["REBASE_name"] = name
		if err := tw.Write(entry); err != nil {
			return err
		}
	}

	return tw.Flush()
}
