package persistence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxshot/capturedb/pkg/catalog"
)

func TestLoadMappingMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	mapping, err := store.LoadMapping()
	require.NoError(t, err)
	assert.Nil(t, mapping)
}

func TestLoadMetadataMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	meta, err := store.LoadMetadata()
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestMappingRoundtrip(t *testing.T) {
	store := NewStore(t.TempDir())
	mapping := catalog.Mapping{
		strings.Repeat("A", 32): "Zelda (EUR)",
		strings.Repeat("B", 32): "Animal Crossing (USA)",
		strings.Repeat("C", 32): "bayonetta (JPN)",
	}

	require.NoError(t, store.WriteMapping(mapping))

	loaded, err := store.LoadMapping()
	require.NoError(t, err)
	assert.Equal(t, mapping, loaded)
}

func TestWriteMappingOrderedByLabel(t *testing.T) {
	store := NewStore(t.TempDir())
	mapping := catalog.Mapping{
		strings.Repeat("A", 32): "Zelda (EUR)",
		strings.Repeat("B", 32): "Animal Crossing (USA)",
		strings.Repeat("C", 32): "bayonetta (JPN)",
	}

	require.NoError(t, store.WriteMapping(mapping))

	data, err := os.ReadFile(store.MappingPath())
	require.NoError(t, err)

	// Members appear ordered by label, case-insensitively, not by key.
	text := string(data)
	animal := strings.Index(text, "Animal Crossing")
	bayonetta := strings.Index(text, "bayonetta")
	zelda := strings.Index(text, "Zelda")
	require.NotEqual(t, -1, animal)
	assert.Less(t, animal, bayonetta)
	assert.Less(t, bayonetta, zelda)

	assert.True(t, strings.HasSuffix(text, "}\n"))
}

func TestWriteMappingEmpty(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.WriteMapping(catalog.Mapping{}))

	data, err := os.ReadFile(store.MappingPath())
	require.NoError(t, err)
	assert.Equal(t, "{\n}\n", string(data))
}

func TestWriteMappingNoHTMLEscaping(t *testing.T) {
	store := NewStore(t.TempDir())
	mapping := catalog.Mapping{
		strings.Repeat("D", 32): "Mario & Sonic <Special> (USA)",
	}

	require.NoError(t, store.WriteMapping(mapping))

	data, err := os.ReadFile(store.MappingPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Mario & Sonic <Special> (USA)")
	assert.NotContains(t, string(data), `&`)
}

func TestMetadataRoundtrip(t *testing.T) {
	store := NewStore(t.TempDir())
	fetched := utc.Time{Time: time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)}
	updated := utc.Time{Time: time.Date(2025, time.May, 30, 8, 0, 0, 0, time.UTC)}

	meta := catalog.RunMetadata{
		TotalCount:  42,
		GeneratedAt: fetched,
		Sources: map[string]catalog.SourceMetadata{
			"nswdb": {
				Count:           42,
				FetchedAt:       fetched,
				SourceUpdatedAt: &updated,
			},
			"switchbrew": {
				Count:     0,
				FetchedAt: fetched,
			},
		},
	}

	require.NoError(t, store.WriteMetadata(meta))

	loaded, err := store.LoadMetadata()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, meta.TotalCount, loaded.TotalCount)
	assert.Equal(t, meta.Sources["nswdb"].Count, loaded.Sources["nswdb"].Count)
	require.NotNil(t, loaded.Sources["nswdb"].SourceUpdatedAt)
	assert.True(t, updated.Time.Equal(loaded.Sources["nswdb"].SourceUpdatedAt.Time))
	assert.Nil(t, loaded.Sources["switchbrew"].SourceUpdatedAt)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.WriteMapping(catalog.Mapping{strings.Repeat("E", 32): "Game (USA)"}))
	require.NoError(t, store.WriteMetadata(catalog.RunMetadata{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.Contains(entry.Name(), ".tmp-"), "leftover temp file %s", entry.Name())
	}
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "data")
	store := NewStore(dir)

	require.NoError(t, store.WriteMapping(catalog.Mapping{}))

	_, err := os.Stat(store.MappingPath())
	assert.NoError(t, err)
}

func TestLoadMappingMalformed(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(store.MappingPath(), []byte("{not json"), 0o644))

	_, err := store.LoadMapping()
	assert.Error(t, err)
}
