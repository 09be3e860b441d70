// Package catalog defines the data model for the capture ID mapping and its
// run metadata: the final artifact this tool produces and the per-source
// provenance bookkeeping that travels with it.
package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Mapping maps a 32-character uppercase hex capture ID to its game label.
type Mapping map[string]string

// Entry is a single capture ID / label pair in serialization order.
type Entry struct {
	CaptureID string
	Label     string
}

// Clone returns an independent copy of the mapping.
func (m Mapping) Clone() Mapping {
	clone := make(Mapping, len(m))
	for id, label := range m {
		clone[id] = label
	}
	return clone
}

// Sorted returns the mapping's entries ordered by label using a
// case-insensitive comparison, for diff-friendly serialization. Exact label
// ties are broken by capture ID so the order is deterministic.
func (m Mapping) Sorted() []Entry {
	entries := make([]Entry, 0, len(m))
	for id, label := range m {
		entries = append(entries, Entry{CaptureID: id, Label: label})
	}

	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(entries, func(i, j int) bool {
		if cmp := c.CompareString(entries[i].Label, entries[j].Label); cmp != 0 {
			return cmp < 0
		}
		return entries[i].CaptureID < entries[j].CaptureID
	})

	return entries
}
