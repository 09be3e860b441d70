package switchbrew

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxshot/capturedb/internal/sources"
	"github.com/nxshot/capturedb/internal/transport"
)

const wikiPage = `<!DOCTYPE html>
<html>
<body>
<h1>Title list/Games</h1>
<table class="wikitable sortable">
<tr><th>Title ID</th><th>Name</th><th>Region</th><th>Version</th></tr>
<tr><td>0100000000010000</td><td>Super Mario Odyssey</td><td>USA</td><td>1.3.0</td></tr>
<tr><td>01007EF00011E000</td><td>The Legend of Zelda: Breath of the Wild</td><td>EUR</td><td>1.6.0</td></tr>
<tr><td>None</td><td>Unknown Title</td><td>None</td><td></td></tr>
<tr><td>0100152000022000</td></tr>
</table>
<div id="footer">This page was last edited on 5 June 2025, at 05:14.</div>
</body>
</html>`

func TestParseTitleTable(t *testing.T) {
	records, err := parseTitleTable([]byte(wikiPage))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "0100000000010000", records[0].TitleID)
	assert.Equal(t, "Super Mario Odyssey", records[0].Name)
	assert.Equal(t, "USA", records[0].Region)

	assert.Equal(t, "01007EF00011E000", records[1].TitleID)
	assert.Equal(t, "The Legend of Zelda: Breath of the Wild", records[1].Name)

	// Placeholder rows survive extraction; normalization drops them later.
	assert.Equal(t, "None", records[2].TitleID)
}

func TestParseTitleTableNoTable(t *testing.T) {
	_, err := parseTitleTable([]byte("<html><body><p>nothing here</p></body></html>"))
	assert.Error(t, err)
}

func TestParseLastEdited(t *testing.T) {
	ts := parseLastEdited(context.Background(), []byte(wikiPage))
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2025, time.June, 5, 5, 14, 0, 0, time.UTC), ts.Time)
}

func TestParseLastEditedMissing(t *testing.T) {
	assert.Nil(t, parseLastEdited(context.Background(), []byte("<html></html>")))
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(wikiPage))
	}))
	defer server.Close()

	src := New(transport.New(0))
	src.url = server.URL

	result, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Records, 3)
	require.NotNil(t, result.UpdatedAt)
	assert.Equal(t, 2025, result.UpdatedAt.Year())
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src := New(transport.New(0))
	src.url = server.URL

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestSourceIdentity(t *testing.T) {
	src := New(transport.New(0))
	assert.Equal(t, sources.SwitchbrewID, src.ID())
	assert.Equal(t, "None", src.Rules().Placeholder)
	assert.False(t, src.Rules().ExpandWorldwide)
	assert.False(t, src.Rules().DropDemos)
}
