// Package switchbrew fetches the game title list from the switchbrew.org
// wiki. Records come from the first wikitable on the page: title ID, name
// and region columns, with missing cells rendered as the literal "None".
package switchbrew

import (
	"context"
	"regexp"
	"time"

	"github.com/agentstation/utc"

	"github.com/nxshot/capturedb/internal/sources"
	"github.com/nxshot/capturedb/internal/transport"
	"github.com/nxshot/capturedb/pkg/errors"
	"github.com/nxshot/capturedb/pkg/logging"
	"github.com/nxshot/capturedb/pkg/normalize"
)

// DefaultURL is the wiki page listing all game titles.
const DefaultURL = "https://switchbrew.org/wiki/Title_list/Games"

// Source fetches records from the switchbrew wiki.
type Source struct {
	client *transport.Client
	url    string
}

// New creates a switchbrew source.
func New(client *transport.Client) *Source {
	return &Source{
		client: client,
		url:    DefaultURL,
	}
}

// ID returns the source identifier.
func (s *Source) ID() sources.ID {
	return sources.SwitchbrewID
}

// Rules returns the normalization rules for wiki records.
func (s *Source) Rules() normalize.Rules {
	return normalize.Rules{
		Placeholder: "None",
	}
}

// Fetch downloads the wiki page and extracts title records from its game
// table. The page's own "last edited" footer provides the upstream update
// time.
func (s *Source) Fetch(ctx context.Context) (*sources.FetchResult, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), "fetch failed", err)
	}

	html, err := transport.ReadBody(resp, s.ID().String())
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), "fetch failed", err)
	}

	records, err := parseTitleTable(html)
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), "parse failed", err)
	}

	return &sources.FetchResult{
		Records:   records,
		UpdatedAt: parseLastEdited(ctx, html),
	}, nil
}

// lastEditedPattern matches the wiki footer, e.g.
// "This page was last edited on 5 June 2025, at 05:14."
var lastEditedPattern = regexp.MustCompile(`This page was last edited on (\d+ \w+ \d+), at (\d+:\d+)`)

// parseLastEdited extracts the page's last-edited time from the footer.
// Returns nil when the footer is missing or doesn't parse; the update time
// is best-effort provenance, not required data.
func parseLastEdited(ctx context.Context, html []byte) *utc.Time {
	match := lastEditedPattern.FindSubmatch(html)
	if match == nil {
		return nil
	}

	t, err := time.Parse("2 January 2006 15:04", string(match[1])+" "+string(match[2]))
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("Failed to parse switchbrew last edited date")
		return nil
	}

	ts := utc.Time{Time: t.UTC()}
	return &ts
}
