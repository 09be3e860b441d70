package catalog

import (
	"github.com/agentstation/utc"
)

// SourceMetadata records what a single source contributed to a run.
type SourceMetadata struct {
	// Count is the number of unique capture IDs the source produced after
	// normalization, before merge overwrites.
	Count int `json:"count"`

	// FetchedAt is when this tool fetched the source.
	FetchedAt utc.Time `json:"fetchedAt"`

	// SourceUpdatedAt is the upstream catalog's own last-update time, when
	// discoverable. Nil when the source does not expose one.
	SourceUpdatedAt *utc.Time `json:"sourceUpdatedAt"`
}

// RunMetadata describes one generation run of the mapping artifact.
//
// Sources not refreshed in a run keep their previous SourceMetadata entry
// unchanged; metadata accretes rather than resets.
type RunMetadata struct {
	TotalCount  int                       `json:"totalCount"`
	GeneratedAt utc.Time                  `json:"generatedAt"`
	Sources     map[string]SourceMetadata `json:"sources"`
}

// Clone returns an independent copy of the run metadata.
func (m RunMetadata) Clone() RunMetadata {
	clone := m
	clone.Sources = make(map[string]SourceMetadata, len(m.Sources))
	for name, sm := range m.Sources {
		clone.Sources[name] = sm
	}
	return clone
}
