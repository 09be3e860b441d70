// Package titledb fetches game records from blawar's titledb, a large JSON
// database keyed by eShop NSU ID. The US.en dump is the most complete and
// accurate of the catalogs, so it is merged last by default. All of its
// entries are labeled with the USA region, and demo entries are dropped.
package titledb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agentstation/utc"

	"github.com/nxshot/capturedb/internal/sources"
	"github.com/nxshot/capturedb/internal/transport"
	"github.com/nxshot/capturedb/pkg/catalog"
	"github.com/nxshot/capturedb/pkg/errors"
	"github.com/nxshot/capturedb/pkg/logging"
	"github.com/nxshot/capturedb/pkg/normalize"
)

// DefaultURL is the raw US.en.json dump.
const DefaultURL = "https://github.com/blawar/titledb/raw/refs/heads/master/US.en.json"

// DefaultCommitsURL queries the last commit touching the dump, which serves
// as the upstream update time.
const DefaultCommitsURL = "https://api.github.com/repos/blawar/titledb/commits?path=US.en.json&per_page=1"

// Timeout allows for the dump's size (roughly 70 MB).
const Timeout = 120 * time.Second

// Source fetches records from titledb.
type Source struct {
	client     *transport.Client
	url        string
	commitsURL string
}

// New creates a titledb source. The client should allow generous timeouts;
// see Timeout.
func New(client *transport.Client) *Source {
	return &Source{
		client:     client,
		url:        DefaultURL,
		commitsURL: DefaultCommitsURL,
	}
}

// ID returns the source identifier.
func (s *Source) ID() sources.ID {
	return sources.TitleDBID
}

// Rules returns the normalization rules for titledb entries.
func (s *Source) Rules() normalize.Rules {
	return normalize.Rules{
		DropDemos:    true,
		ForcedRegion: "USA",
	}
}

// entry is one titledb value. The database carries dozens of fields per
// title; only these matter here.
type entry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsDemo bool   `json:"isDemo"`
}

// Fetch downloads the dump and extracts title records. The dump is a single
// large JSON object, so it is decoded as a token stream rather than
// buffered whole.
func (s *Source) Fetch(ctx context.Context) (*sources.FetchResult, error) {
	updatedAt := s.lastCommit(ctx)

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), "fetch failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, errors.NewSourceError(s.ID().String(), "fetch failed",
			errors.NewAPIError(s.ID().String(), resp.StatusCode, "unexpected status"))
	}

	records, err := decodeEntries(json.NewDecoder(resp.Body))
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), "parse failed", err)
	}

	return &sources.FetchResult{
		Records:   records,
		UpdatedAt: updatedAt,
	}, nil
}

// decodeEntries walks the top-level object one value at a time, in document
// order. Entries that fail to decode are skipped individually; a malformed
// entry shouldn't discard the other seventy megabytes.
func decodeEntries(dec *json.Decoder) ([]catalog.SourceRecord, error) {
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, errors.WrapParse("json", "titledb", err)
	}

	var records []catalog.SourceRecord
	for dec.More() {
		if _, err := dec.Token(); err != nil { // NSU ID key
			return nil, errors.WrapParse("json", "titledb", err)
		}

		var e entry
		if err := dec.Decode(&e); err != nil {
			return nil, errors.WrapParse("json", "titledb", err)
		}

		records = append(records, catalog.SourceRecord{
			TitleID: e.ID,
			Name:    e.Name,
			Demo:    e.IsDemo,
		})
	}

	return records, nil
}

// commitResponse is the subset of the GitHub commits API response we need.
type commitResponse []struct {
	Commit struct {
		Committer struct {
			Date utc.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// lastCommit looks up the dump's last commit date via the GitHub API.
// Best effort; nil when the API is unreachable or the response is empty.
func (s *Source) lastCommit(ctx context.Context) *utc.Time {
	resp, err := s.client.Get(ctx, s.commitsURL)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("Failed to get titledb last commit")
		return nil
	}

	var commits commitResponse
	if err := transport.DecodeJSON(resp, s.ID().String(), &commits); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("Failed to decode titledb commit response")
		return nil
	}

	if len(commits) == 0 {
		return nil
	}
	date := commits[0].Commit.Committer.Date
	return &date
}
