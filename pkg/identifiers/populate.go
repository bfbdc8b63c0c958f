package identifiers

import (
	"fmt"
	"os"
	"strings"
)

// The three populators below are independent row-by-row folds over the catalog.
// Each consumes one external reference file and fills exactly one attribute
// slot per identifier. IDs unknown to the catalog are skipped silently; values
// already set are never overwritten (conflicting display names and UniProt IDs
// are recorded in the conflict logs instead).

// PopulateDisplayNames reads the display-name reference file (header line
// skipped; data rows effectively <taxon> <display_name> <raw_id>) and fills the
// display_name slot. Returns the number of data rows processed.
func (c *Catalog) PopulateDisplayNames(namesPath string) (int, error) {
	return c.populate(namesPath, true, func(fields []string) {
		rawID, displayName := fields[2], fields[1]
		rec, ok := c.records[rawID]
		if !ok {
			return
		}
		if _, conflict := rec.DisplayName.Observe(displayName); conflict {
			// Same Ensembl ID mapped to multiple display names. Should never
			// happen in STRING exports, but it has.
			c.NameConflicts.Record(rawID, rec.DisplayName.Value(), displayName)
		}
	})
}

// PopulateAliases reads the Entrez reference file (header line skipped; data
// rows <taxon> <ncbi_gene_ids> <raw_id> with |-separated gene IDs) and fills
// the alias slot with "ncbigene:A|ncbigene:B|ensembl:<accession>". Set-once:
// later rows for an already-aliased ID are ignored without logging.
func (c *Catalog) PopulateAliases(entrezPath string) (int, error) {
	return c.populate(entrezPath, true, func(fields []string) {
		rawID, geneIDs := fields[2], fields[1]
		rec, ok := c.records[rawID]
		if !ok {
			return
		}
		if rec.Alias.IsSet() {
			return
		}

		parts := strings.Split(geneIDs, "|")
		for i, p := range parts {
			parts[i] = "ncbigene:" + p
		}
		alias := strings.Join(parts, "|") + "|ensembl:" + AccessionOf(rawID)
		rec.Alias.Observe(alias)
	})
}

// PopulateRepresents reads the UniProt reference file (no header, every line is
// data; rows <taxon> <uniprot_id>|<label> <raw_id> ...) and fills the
// represents slot with "uniprot:" + the segment before the first "|".
// Conflicting mappings are compared prefixed-vs-prefixed and logged as
// ["uniprot:<first>", "uniprot:<second>"].
func (c *Catalog) PopulateRepresents(uniprotPath string) (int, error) {
	return c.populate(uniprotPath, false, func(fields []string) {
		rawID := fields[2]
		uniprotID, _, _ := strings.Cut(fields[1], "|")
		rec, ok := c.records[rawID]
		if !ok {
			return
		}
		candidate := "uniprot:" + uniprotID
		if _, conflict := rec.Represents.Observe(candidate); conflict {
			c.RepresentsConflicts.Record(rawID, rec.Represents.Value(), candidate)
		}
	})
}

// populate streams one reference file, splitting every data row on whitespace
// and handing rows with at least three fields to apply.
func (c *Catalog) populate(path string, skipHeader bool, apply func(fields []string)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &FormatError{File: path, Cause: fmt.Errorf("%w: %v", ErrFileOpenFailed, err)}
	}
	defer f.Close()

	scanner := newLineScanner(f)
	if skipHeader {
		if !scanner.Scan() {
			// Empty reference file populates nothing.
			return 0, scanner.Err()
		}
	}

	rows := 0
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		apply(fields)
		rows++
	}
	if err := scanner.Err(); err != nil {
		return rows, fmt.Errorf("scan %s: %w", path, err)
	}
	return rows, nil
}
