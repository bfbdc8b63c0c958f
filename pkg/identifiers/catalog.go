package identifiers

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Catalog owns the identifier table and the two conflict logs. It is built from
// the links file, populated by the three reference-file passes, and read-only
// for the filter stage. Not safe for concurrent mutation.
type Catalog struct {
	records map[string]*Record

	// Endpoint column names taken from the links file header.
	Protein1Column string
	Protein2Column string

	NameConflicts       ConflictLog
	RepresentsConflicts ConflictLog
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		records:             make(map[string]*Record),
		NameConflicts:       make(ConflictLog),
		RepresentsConflicts: make(ConflictLog),
	}
}

// BuildCatalog scans the links file once and returns a catalog holding every
// distinct value of either endpoint column, all attribute slots unset. The
// first line is the header; its first two whitespace-separated tokens name the
// endpoint columns.
func BuildCatalog(linksPath string) (*Catalog, error) {
	f, err := os.Open(linksPath)
	if err != nil {
		return nil, &FormatError{File: linksPath, Cause: fmt.Errorf("%w: %v", ErrFileOpenFailed, err)}
	}
	defer f.Close()

	c := NewCatalog()

	scanner := newLineScanner(f)
	if !scanner.Scan() {
		return nil, &FormatError{File: linksPath, Detail: "empty file", Cause: ErrMalformedHeader}
	}

	header := strings.Fields(scanner.Text())
	if len(header) < 2 {
		return nil, &FormatError{
			File:   linksPath,
			Detail: fmt.Sprintf("expected at least 2 header tokens, got %d", len(header)),
			Cause:  ErrMalformedHeader,
		}
	}
	c.Protein1Column = header[0]
	c.Protein2Column = header[1]

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		c.add(fields[0])
		c.add(fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", linksPath, err)
	}

	return c, nil
}

// add registers a raw ID, creating its record if absent. Case-sensitive.
func (c *Catalog) add(rawID string) {
	if _, ok := c.records[rawID]; !ok {
		c.records[rawID] = &Record{}
	}
}

// Len returns the number of distinct identifiers in the table.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Lookup returns the record for rawID, if present.
func (c *Catalog) Lookup(rawID string) (*Record, bool) {
	rec, ok := c.records[rawID]
	return rec, ok
}

// IDs returns all identifiers in sorted order. Intended for diagnostics and
// tests; the table itself promises no iteration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// newLineScanner returns a scanner sized for STRING flat files, whose lines are
// short but number in the millions.
func newLineScanner(f *os.File) *bufio.Scanner {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}
