package identifiers

import "strings"

// Attribute is a write-once-effective slot. The first observed value wins; later
// differing candidates are reported as conflicts and never overwrite the value.
type Attribute struct {
	value string
	set   bool
}

// Observe applies the first-wins transition for a candidate value.
// accepted is true when the slot was unset and now holds candidate; conflict is
// true when the slot already holds a different value. Observing the value the
// slot already holds is a no-op.
func (a *Attribute) Observe(candidate string) (accepted, conflict bool) {
	if !a.set {
		a.value = candidate
		a.set = true
		return true, false
	}
	if candidate != a.value {
		return false, true
	}
	return false, false
}

// IsSet reports whether the slot holds a value.
func (a *Attribute) IsSet() bool {
	return a.set
}

// Value returns the slot's value, or "" when unset.
func (a *Attribute) Value() string {
	return a.value
}

// Record holds the three attribute slots kept per raw Ensembl protein ID.
type Record struct {
	DisplayName Attribute
	Alias       Attribute
	Represents  Attribute
}

// ConflictLog maps a raw ID to the ordered list of conflicting values observed
// for one attribute: the accepted value first, rejected candidates after it in
// file order. Diagnostics only; it never feeds back into the output table.
type ConflictLog map[string][]string

// Record notes a rejected candidate for id. The accepted value is inserted as
// the first element the first time id conflicts.
func (l ConflictLog) Record(id, accepted, rejected string) {
	if _, ok := l[id]; !ok {
		l[id] = []string{accepted}
	}
	l[id] = append(l[id], rejected)
}

// Len returns the number of IDs with at least one conflict.
func (l ConflictLog) Len() int {
	return len(l)
}

// AccessionOf returns the accession part of a raw Ensembl protein ID, the
// substring after the first ".". IDs without a taxon prefix come back whole.
func AccessionOf(rawID string) string {
	if i := strings.IndexByte(rawID, '.'); i >= 0 {
		return rawID[i+1:]
	}
	return rawID
}
