package nswdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxshot/capturedb/internal/sources"
	"github.com/nxshot/capturedb/internal/transport"
)

const xmlDump = `<?xml version="1.0" encoding="utf-8"?>
<releases>
  <release>
    <id>1</id>
    <name>Super Mario Odyssey</name>
    <titleid>0100000000010000</titleid>
    <region>WLD</region>
    <group>BigBlueBox</group>
  </release>
  <release>
    <id>2</id>
    <name>Splatoon 2</name>
    <titleid>01003BC0000A0000</titleid>
    <region>JPN</region>
  </release>
  <release>
    <id>3</id>
    <name>Mystery Dump</name>
    <titleid></titleid>
  </release>
</releases>`

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Wed, 21 May 2025 07:28:00 GMT")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(xmlDump))
	}))
	defer server.Close()

	src := New(transport.New(0))
	src.url = server.URL

	result, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Records, 3)

	assert.Equal(t, "0100000000010000", result.Records[0].TitleID)
	assert.Equal(t, "Super Mario Odyssey", result.Records[0].Name)
	// The WLD code is preserved raw; normalization expands it.
	assert.Equal(t, "WLD", result.Records[0].Region)

	assert.Equal(t, "01003BC0000A0000", result.Records[1].TitleID)
	assert.Equal(t, "JPN", result.Records[1].Region)

	// Releases with empty fields survive extraction and die in
	// normalization.
	assert.Equal(t, "", result.Records[2].TitleID)

	require.NotNil(t, result.UpdatedAt)
	assert.Equal(t, 2025, result.UpdatedAt.Year())
}

func TestFetchNoLastModified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(xmlDump))
	}))
	defer server.Close()

	src := New(transport.New(0))
	src.url = server.URL

	result, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result.UpdatedAt)
}

func TestFetchBadXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<releases><release><name>broken"))
	}))
	defer server.Close()

	src := New(transport.New(0))
	src.url = server.URL

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestSourceIdentity(t *testing.T) {
	src := New(transport.New(0))
	assert.Equal(t, sources.NSWDBID, src.ID())
	assert.True(t, src.Rules().ExpandWorldwide)
	assert.False(t, src.Rules().DropDemos)
	assert.Empty(t, src.Rules().Placeholder)
}
