// Package nswdb fetches release records from the nswdb.com XML database.
// nswdb uses the "WLD" region code for worldwide releases; normalization
// expands it to "EUR USA".
package nswdb

import (
	"context"
	"encoding/xml"

	"github.com/agentstation/utc"

	"github.com/nxshot/capturedb/internal/sources"
	"github.com/nxshot/capturedb/internal/transport"
	"github.com/nxshot/capturedb/pkg/catalog"
	"github.com/nxshot/capturedb/pkg/errors"
	"github.com/nxshot/capturedb/pkg/logging"
	"github.com/nxshot/capturedb/pkg/normalize"
)

// DefaultURL is the nswdb XML dump endpoint.
const DefaultURL = "https://nswdb.com/xml.php"

// Source fetches records from nswdb.com.
type Source struct {
	client *transport.Client
	url    string
}

// New creates an nswdb source.
func New(client *transport.Client) *Source {
	return &Source{
		client: client,
		url:    DefaultURL,
	}
}

// ID returns the source identifier.
func (s *Source) ID() sources.ID {
	return sources.NSWDBID
}

// Rules returns the normalization rules for nswdb releases.
func (s *Source) Rules() normalize.Rules {
	return normalize.Rules{
		ExpandWorldwide: true,
	}
}

// release is one <release> element of the dump. The dump carries many more
// fields per release; only these three matter here.
type release struct {
	TitleID string `xml:"titleid"`
	Name    string `xml:"name"`
	Region  string `xml:"region"`
}

// releaseList is the document root.
type releaseList struct {
	Releases []release `xml:"release"`
}

// Fetch downloads the XML dump and extracts release records. The endpoint's
// Last-Modified header, when present, provides the upstream update time.
func (s *Source) Fetch(ctx context.Context) (*sources.FetchResult, error) {
	updatedAt := s.lastModified(ctx)

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), "fetch failed", err)
	}

	body, err := transport.ReadBody(resp, s.ID().String())
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), "fetch failed", err)
	}

	var list releaseList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, errors.NewSourceError(s.ID().String(), "parse failed",
			errors.WrapParse("xml", s.ID().String(), err))
	}

	records := make([]catalog.SourceRecord, 0, len(list.Releases))
	for _, rel := range list.Releases {
		records = append(records, catalog.SourceRecord{
			TitleID: rel.TitleID,
			Name:    rel.Name,
			Region:  rel.Region,
		})
	}

	return &sources.FetchResult{
		Records:   records,
		UpdatedAt: updatedAt,
	}, nil
}

// lastModified asks the endpoint for its Last-Modified header via a HEAD
// request before the download. Best effort; nil when unavailable.
func (s *Source) lastModified(ctx context.Context) *utc.Time {
	resp, err := s.client.Head(ctx, s.url)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("Failed to get nswdb last modified")
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	return transport.LastModified(resp)
}
