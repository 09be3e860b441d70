// Package sources defines the interface and shared types for catalog data
// sources. Each source fetches one upstream catalog and extracts raw title
// records from its native document format; everything downstream of the raw
// records is the reconciler's job.
package sources

import (
	"context"
	"slices"

	"github.com/agentstation/utc"

	"github.com/nxshot/capturedb/pkg/catalog"
	"github.com/nxshot/capturedb/pkg/normalize"
)

// ID identifies a catalog source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Known sources.
const (
	SwitchbrewID ID = "switchbrew"
	NSWDBID      ID = "nswdb"
	TitleDBID    ID = "titledb"
)

// DefaultOrder returns the default source precedence order. Later sources
// override earlier ones on capture ID collisions, so titledb, the most
// complete catalog, comes last.
func DefaultOrder() []ID {
	return []ID{SwitchbrewID, NSWDBID, TitleDBID}
}

// IsValid returns true if the ID names a known source.
func (id ID) IsValid() bool {
	return slices.Contains(DefaultOrder(), id)
}

// FetchResult is what a successful fetch yields: the raw records in
// document order and, when the source exposes one, the upstream catalog's
// own last-update time.
type FetchResult struct {
	Records   []catalog.SourceRecord
	UpdatedAt *utc.Time
}

// Source is one upstream catalog.
type Source interface {
	// ID returns the identifier of this source.
	ID() ID

	// Rules returns the normalization rules for this source's record shape.
	Rules() normalize.Rules

	// Fetch retrieves and extracts the source's records. A failed fetch
	// returns an error and contributes nothing; it never takes the run down.
	Fetch(ctx context.Context) (*FetchResult, error)
}
