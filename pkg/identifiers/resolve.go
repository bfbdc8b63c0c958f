package identifiers

// NameRepAlias is the resolved triple written to the output table for one
// endpoint of an edge.
type NameRepAlias struct {
	Name       string
	Represents string
	Alias      string
}

// Resolve derives the (display name, represents, alias) triple for rawID,
// applying fallback rules for unset slots in this order:
//
//  1. display_name falls back to "ensembl:" + accession;
//  2. represents falls back to the display name itself when rule 1 fired,
//     otherwise to "hgnc:" + display name;
//  3. alias falls back to the display name when rule 1 fired, otherwise to the
//     represents value.
//
// The result is cached back into the record, so resolving the same ID twice is
// idempotent. Never fails: an ID missing from the table resolves entirely
// through the Ensembl fallback.
func (c *Catalog) Resolve(rawID string) NameRepAlias {
	rec, ok := c.records[rawID]
	if !ok {
		rec = &Record{}
		c.records[rawID] = rec
	}

	usedEnsemblFallback := false
	if !rec.DisplayName.set {
		rec.DisplayName.value = "ensembl:" + AccessionOf(rawID)
		rec.DisplayName.set = true
		usedEnsemblFallback = true
	}

	if !rec.Represents.set {
		if usedEnsemblFallback {
			rec.Represents.value = rec.DisplayName.value
		} else {
			rec.Represents.value = "hgnc:" + rec.DisplayName.value
		}
		rec.Represents.set = true
	}

	if !rec.Alias.set {
		if usedEnsemblFallback {
			rec.Alias.value = rec.DisplayName.value
		} else {
			rec.Alias.value = rec.Represents.value
		}
		rec.Alias.set = true
	}

	return NameRepAlias{
		Name:       rec.DisplayName.value,
		Represents: rec.Represents.value,
		Alias:      rec.Alias.value,
	}
}
