package identifiers

import (
	"testing"
)

// catalogWith returns a catalog seeded with the given raw IDs, as if they had
// all appeared in the links file.
func catalogWith(ids ...string) *Catalog {
	c := NewCatalog()
	for _, id := range ids {
		c.add(id)
	}
	return c
}

func TestPopulateDisplayNames(t *testing.T) {
	path := writeTempFile(t, "names.tsv",
		"#taxid\tdisplay_name\tstring_protein_id\n"+
			"9606\tACOT2\t9606.ENSP00000238651\n"+
			"9606\tTP53\t9606.ENSP00000269305\n"+
			"9606\tUNKNOWN\t9606.ENSP99999999999\n")

	c := catalogWith("9606.ENSP00000238651", "9606.ENSP00000269305")
	rows, err := c.PopulateDisplayNames(path)
	if err != nil {
		t.Fatalf("PopulateDisplayNames: %v", err)
	}
	if rows != 3 {
		t.Errorf("rows = %d, want 3 (every line processed, known or not)", rows)
	}

	rec, _ := c.Lookup("9606.ENSP00000238651")
	if got := rec.DisplayName.Value(); got != "ACOT2" {
		t.Errorf("display_name = %q, want ACOT2", got)
	}
	if c.NameConflicts.Len() != 0 {
		t.Errorf("unexpected conflicts: %v", c.NameConflicts)
	}
	// The unknown ID must not have been added to the table
	if _, ok := c.Lookup("9606.ENSP99999999999"); ok {
		t.Error("unknown ID from reference file leaked into the catalog")
	}
}

func TestPopulateDisplayNamesConflict(t *testing.T) {
	path := writeTempFile(t, "names.tsv",
		"header\n"+
			"9606\tACOT2\t9606.ENSP00000238651\n"+
			"9606\tACOT2B\t9606.ENSP00000238651\n"+
			"9606\tACOT2C\t9606.ENSP00000238651\n")

	c := catalogWith("9606.ENSP00000238651")
	if _, err := c.PopulateDisplayNames(path); err != nil {
		t.Fatalf("PopulateDisplayNames: %v", err)
	}

	rec, _ := c.Lookup("9606.ENSP00000238651")
	if got := rec.DisplayName.Value(); got != "ACOT2" {
		t.Errorf("first value must win, got %q", got)
	}

	conflicts := c.NameConflicts["9606.ENSP00000238651"]
	want := []string{"ACOT2", "ACOT2B", "ACOT2C"}
	if len(conflicts) != len(want) {
		t.Fatalf("conflict log = %v, want %v", conflicts, want)
	}
	for i := range want {
		if conflicts[i] != want[i] {
			t.Errorf("conflict[%d] = %q, want %q", i, conflicts[i], want[i])
		}
	}
}

func TestPopulateDisplayNamesIdempotent(t *testing.T) {
	path := writeTempFile(t, "names.tsv",
		"header\n"+
			"9606\tACOT2\t9606.ENSP00000238651\n")

	c := catalogWith("9606.ENSP00000238651")
	if _, err := c.PopulateDisplayNames(path); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := c.PopulateDisplayNames(path); err != nil {
		t.Fatalf("second run: %v", err)
	}

	rec, _ := c.Lookup("9606.ENSP00000238651")
	if got := rec.DisplayName.Value(); got != "ACOT2" {
		t.Errorf("display_name = %q after double run", got)
	}
	if c.NameConflicts.Len() != 0 {
		t.Errorf("re-running a populator must not grow the conflict log: %v", c.NameConflicts)
	}
}

func TestPopulateAliases(t *testing.T) {
	tests := []struct {
		name  string
		genes string
		want  string
	}{
		{"single gene id", "10965", "ncbigene:10965|ensembl:ENSP00000238651"},
		{"multiple gene ids", "246721|548644", "ncbigene:246721|ncbigene:548644|ensembl:ENSP00000238651"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "entrez.tsv",
				"header\n"+
					"9606\t"+tt.genes+"\t9606.ENSP00000238651\n")

			c := catalogWith("9606.ENSP00000238651")
			if _, err := c.PopulateAliases(path); err != nil {
				t.Fatalf("PopulateAliases: %v", err)
			}
			rec, _ := c.Lookup("9606.ENSP00000238651")
			if got := rec.Alias.Value(); got != tt.want {
				t.Errorf("alias = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPopulateAliasesNeverOverwrites(t *testing.T) {
	path := writeTempFile(t, "entrez.tsv",
		"header\n"+
			"9606\t10965\t9606.ENSP00000238651\n"+
			"9606\t99999\t9606.ENSP00000238651\n")

	c := catalogWith("9606.ENSP00000238651")
	if _, err := c.PopulateAliases(path); err != nil {
		t.Fatalf("PopulateAliases: %v", err)
	}
	rec, _ := c.Lookup("9606.ENSP00000238651")
	if got := rec.Alias.Value(); got != "ncbigene:10965|ensembl:ENSP00000238651" {
		t.Errorf("alias = %q, first row must win", got)
	}
}

func TestPopulateRepresents(t *testing.T) {
	// The UniProt file has no header: the first line is data.
	path := writeTempFile(t, "uniprot.tsv",
		"9606\tP49619|ACOT2_HUMAN\t9606.ENSP00000238651\t100.0\t215\n"+
			"9606\tP04637|P53_HUMAN\t9606.ENSP00000269305\t100.0\t393\n")

	c := catalogWith("9606.ENSP00000238651", "9606.ENSP00000269305")
	rows, err := c.PopulateRepresents(path)
	if err != nil {
		t.Fatalf("PopulateRepresents: %v", err)
	}
	if rows != 2 {
		t.Errorf("rows = %d, want 2 (first line is data, not header)", rows)
	}

	rec, _ := c.Lookup("9606.ENSP00000238651")
	if got := rec.Represents.Value(); got != "uniprot:P49619" {
		t.Errorf("represents = %q, want uniprot:P49619", got)
	}
}

func TestPopulateRepresentsConflict(t *testing.T) {
	path := writeTempFile(t, "uniprot.tsv",
		"9606\tP49619|ACOT2_HUMAN\t9606.ENSP00000238651\n"+
			"9606\tQ99999|OTHER_HUMAN\t9606.ENSP00000238651\n")

	c := catalogWith("9606.ENSP00000238651")
	if _, err := c.PopulateRepresents(path); err != nil {
		t.Fatalf("PopulateRepresents: %v", err)
	}

	rec, _ := c.Lookup("9606.ENSP00000238651")
	if got := rec.Represents.Value(); got != "uniprot:P49619" {
		t.Errorf("first value must win, got %q", got)
	}

	conflicts := c.RepresentsConflicts["9606.ENSP00000238651"]
	if len(conflicts) != 2 || conflicts[0] != "uniprot:P49619" || conflicts[1] != "uniprot:Q99999" {
		t.Errorf("conflict log = %v, want [uniprot:P49619 uniprot:Q99999]", conflicts)
	}
}

func TestPopulateRepresentsRepeatIsNotConflict(t *testing.T) {
	// Same mapping twice: like-for-like comparison must not report a conflict.
	path := writeTempFile(t, "uniprot.tsv",
		"9606\tP49619|ACOT2_HUMAN\t9606.ENSP00000238651\n"+
			"9606\tP49619|ACOT2_HUMAN\t9606.ENSP00000238651\n")

	c := catalogWith("9606.ENSP00000238651")
	if _, err := c.PopulateRepresents(path); err != nil {
		t.Fatalf("PopulateRepresents: %v", err)
	}
	if c.RepresentsConflicts.Len() != 0 {
		t.Errorf("identical repeated mapping logged as conflict: %v", c.RepresentsConflicts)
	}
}
