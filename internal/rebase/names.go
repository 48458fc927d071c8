package rebase

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/isrusin/rebase/internal/etsv"
	"github.com/spf13/cobra"
)

// REBASE annotates some unconventional systems and proteins as ordinary
// R-M system components, leaving the real type visible only in the naming
// pattern. The annotation fix below derives the actual protein and system
// types from the names, which makes splitting proteins into systems and
// complexes possible.

// protTypeRe recognizes unconventional type marks inside protein names.
// The mark cannot open the name and only digits, a single letter, a dash
// suffix and the putative P may follow it.
var protTypeRe = regexp.MustCompile(
	`^.*[^.-](Mrr|Mcr[ABC]|Dam|Dcm|Gmr(?:S|D|SD)|Dnmt|CMT|DRM|MET|Dnd[ABCDE]|Dpt[FGH]|Ssp[ABCDFGH])[0-9]*[A-Za-z]?(?:-.+)?P?$`,
)

// systemTags replace a component mark with its whole-system name when
// building system names.
var systemTags = map[string]string{
	"McrA": "McrABC", "McrB": "McrABC", "McrC": "McrABC",
	"GmrS": "GmrSD", "GmrD": "GmrSD",
	"DndA": "Dnd/Dpt", "DndB": "Dnd/Dpt", "DndC": "Dnd/Dpt",
	"DndD": "Dnd/Dpt", "DndE": "Dnd/Dpt",
	"DptF": "Dnd/Dpt", "DptG": "Dnd/Dpt", "DptH": "Dnd/Dpt",
	"SspA": "Ssp", "SspB": "Ssp", "SspC": "Ssp", "SspD": "Ssp",
	"SspF": "Ssp", "SspG": "Ssp", "SspH": "Ssp",
}

// systemTypes override the declared system type for name-derived types.
var systemTypes = map[string]string{
	"DndA": "Dnd/Dpt", "DndB": "Dnd/Dpt", "DndC": "Dnd/Dpt",
	"DndD": "Dnd/Dpt", "DndE": "Dnd/Dpt",
	"DptF": "Dnd/Dpt", "DptG": "Dnd/Dpt", "DptH": "Dnd/Dpt",
	"SspA": "Ssp", "SspB": "Ssp", "SspC": "Ssp", "SspD": "Ssp",
	"SspF": "Ssp", "SspG": "Ssp", "SspH": "Ssp",
	"M.Dcm": "Dcm", "V.Dcm": "Dcm",
	"Dam": "Orphan_M", "Dnmt": "Orphan_M", "CMT": "Orphan_M",
	"DRM": "Orphan_M", "MET": "Orphan_M",
}

// categories generalize fixed protein types. Types without an entry are
// categories of their own.
var categories = map[string]string{
	"Dnmt": "eM", "CMT": "eM", "DRM": "eM", "MET": "eM",
	"Mrr": "R", "McrA": "R", "McrB": "R", "McrC": "R",
	"V": "N", "V.Dcm": "N", "Nt": "N", "Nb": "N",
	"Dam": "M", "M.Dcm": "M",
	"GmrS": "GH", "GmrD": "GH", "GmrSD": "GH",
	"DndA": "PT", "DndB": "PT", "DndC": "PT", "DndD": "PT", "DndE": "PT",
	"DptF": "PT", "DptG": "PT", "DptH": "PT",
	"SspA": "PT", "SspB": "PT", "SspC": "PT", "SspD": "PT",
	"SspF": "PT", "SspG": "PT", "SspH": "PT",
}

// nameFields bind the protein table columns the annotation fix reads.
var nameFields = []etsv.Field{
	{Key: "name", Title: "REBASE_name"},
	{Key: "complex", Title: "Complex_name"},
	{Key: "prot_type", Title: "Protein_type"},
	{Key: "sys_type", Title: "System_type"},
}

// nameOutFields lay out the fixed annotation table.
var nameOutFields = []etsv.Field{
	{Key: "name", Title: "REBASE_name"},
	{Key: "complex", Title: "Complex_name"},
	{Key: "prot_type", Title: "Protein_type"},
	{Key: "prot_type_fixed", Title: "Protein_type_fixed"},
	{Key: "category", Title: "Protein_category"},
	{Key: "system", Title: "System_name"},
	{Key: "sys_type", Title: "System_type"},
	{Key: "sys_type_fixed", Title: "System_type_fixed"},
}

// ParseNamesCmd runs protein annotation fixing using a cobra command's
// flags.
func ParseNamesCmd(cmd *cobra.Command, args []string) {
	flags, _ := parseNamesFlags(cmd, args)
	if err := ParseNames(flags); err != nil {
		log.Fatal(err)
	}
}

// ParseNames reads a protein table and writes it back with the fixed type,
// category and system name columns added. The tag of the flags holds the
// output path, "-" for stdout.
func ParseNames(flags *Flags) error {
	in, err := openInput(flags.in)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", flags.in, err)
	}
	defer in.Close()

	out, err := createOutput(flags.tag)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", flags.tag, err)
	}

	proteins, err := parseNames(in, out)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to write %s: %v", flags.tag, cerr)
	}
	if err != nil {
		return err
	}

	log.Info("fixed protein annotations", "proteins", proteins)

	return nil
}

// parseNames streams the protein table from r to w, adding the
// name-derived columns. Ssp-like entries are held back and re-checked
// against each other before writing, so their rows come last. Returns the
// number of processed proteins.
func parseNames(r io.Reader, w io.Writer) (int, error) {
	tr, err := etsv.NewReader(r, nameFields)
	if err != nil {
		return 0, fmt.Errorf("failed to read protein table: %v", err)
	}
	tw := etsv.NewWriter(w, nameOutFields)

	count := 0
	// REBASE contains errors in Ssp component names, hold the candidates
	// back until all of them are seen
	var ssps []map[string]string

	for {
		entry, err := tr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read protein table: %v", err)
		}
		count++

		addTypeTag(entry)
		addNameType(entry)
		if strings.Contains(entry["name_type"], "Ssp") {
			log.Debug("held back for Ssp analysis", "name", entry["name"])
			ssps = append(ssps, entry)
			continue
		}
		if err := fillAndWrite(entry, tw); err != nil {
			return 0, err
		}
	}

	fixSsps(ssps)
	for _, entry := range ssps {
		if err := fillAndWrite(entry, tw); err != nil {
			return 0, err
		}
	}

	if err := tw.Flush(); err != nil {
		return 0, err
	}

	return count, nil
}

// addTypeTag stores the dotted name prefix, digits stripped, under the
// type_tag key. Names without a dot get no tag at all.
func addTypeTag(entry map[string]string) {
	name := entry["name"]
	if !strings.Contains(name, ".") {
		return
	}

	tag, _, _ := strings.Cut(name, ".")
	tag = strings.TrimRight(tag, "0123456789")
	if tag != entry["prot_type"] {
		log.Debug("tag does not match protein type", "name", name, "type", entry["prot_type"])
	}
	entry["type_tag"] = tag
}

// addNameType stores the type mark recognized inside the protein name
// under the name_type key. A Dcm mark keeps the protein type as a prefix
// to tell M.Dcm and V.Dcm apart.
func addNameType(entry map[string]string) {
	m := protTypeRe.FindStringSubmatch(entry["name"])
	if m == nil {
		return
	}

	nameType := m[1]
	if nameType == "Dcm" {
		nameType = entry["prot_type"] + ".Dcm"
	}
	entry["name_type"] = nameType
}

// fixSsps demotes false Ssp candidates: components of non-Type II systems,
// components that are not M or R proteins, and systems with a single
// distinct component letter. Demoted entries lose their name_type key.
func fixSsps(entries []map[string]string) {
	sspTypes := make(map[string]map[byte]bool)
	sspProts := make(map[string][]map[string]string)

	for _, entry := range entries {
		if entry["sys_type"] != "Type II" {
			log.Debug("not an Ssp component, system type mismatch", "name", entry["name"])
			delete(entry, "name_type")
		} else if !strings.Contains("MR", entry["prot_type"]) {
			log.Debug("not an Ssp component, protein type mismatch", "name", entry["name"])
			delete(entry, "name_type")
		} else {
			name := entry["name"]
			i := strings.LastIndex(name, "Ssp")
			tail := name[i+3:]
			if tail == "" {
				continue
			}
			sys := name[:i]
			if sspTypes[sys] == nil {
				sspTypes[sys] = make(map[byte]bool)
			}
			sspTypes[sys][tail[0]] = true
			sspProts[sys] = append(sspProts[sys], entry)
		}
	}

	for sys, types := range sspTypes {
		if len(types) == 1 {
			for _, entry := range sspProts[sys] {
				log.Debug("not an Ssp component, no other components", "name", entry["name"])
				delete(entry, "name_type")
			}
		}
	}
}

// fillAndWrite resolves the fixed protein type, derives the category, the
// system name and the fixed system type, and writes the entry out. The
// fixed type prefers the name-derived mark, then the name tag, then the
// declared protein type.
func fillAndWrite(entry map[string]string, tw *etsv.Writer) error {
	if nameType, ok := entry["name_type"]; ok {
		entry["prot_type_fixed"] = nameType
	} else if tag, ok := entry["type_tag"]; ok {
		entry["prot_type_fixed"] = tag
	} else {
		entry["prot_type_fixed"] = entry["prot_type"]
	}
	addCategory(entry)
	addSystem(entry)
	fixSystemType(entry)
	return tw.Write(entry)
}

// addCategory derives the protein category from the fixed protein type.
func addCategory(entry map[string]string) {
	protType := entry["prot_type_fixed"]
	category, ok := categories[protType]
	if !ok {
		category = protType
	}
	entry["category"] = category
}

// addSystem builds the system name: the complex name if any, otherwise the
// protein name, without the trailing putative mark and the dotted type
// prefix, with a recognized component mark replaced by its system tag.
func addSystem(entry map[string]string) {
	name := entry["name"]
	if complexName := entry["complex"]; complexName != "" {
		name = complexName
	}
	name = strings.TrimSuffix(name, "P")
	if _, ok := entry["type_tag"]; ok {
		if _, rest, found := strings.Cut(name, "."); found {
			name = rest
		}
	}
	nameType := entry["name_type"]
	if tag, ok := systemTags[nameType]; ok {
		if i := strings.LastIndex(name, nameType); i >= 0 {
			name = name[:i] + tag + name[i+len(nameType):]
		}
	}
	entry["system"] = name
}

// fixSystemType overrides the system type for name-derived protein types
// and normalizes the spacing of all others.
func fixSystemType(entry map[string]string) {
	if sysType, ok := systemTypes[entry["name_type"]]; ok {
		log.Debug("system type changed", "name", entry["name"])
		entry["sys_type_fixed"] = sysType
	} else {
		entry["sys_type_fixed"] = strings.ReplaceAll(entry["sys_type"], " ", "_")
	}
}
