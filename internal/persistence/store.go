// Package persistence reads and writes the mapping and metadata artifacts.
// Both are plain JSON documents laid out for clean diffs: the mapping is an
// object ordered by game label, the metadata a small indented document.
package persistence

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/nxshot/capturedb/pkg/catalog"
	"github.com/nxshot/capturedb/pkg/errors"
)

// Artifact file names inside the data directory.
const (
	MappingFile  = "captureIds.json"
	MetadataFile = "captureIds.meta.json"
)

// Store reads and writes run artifacts under one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// MappingPath returns the mapping artifact path.
func (s *Store) MappingPath() string {
	return filepath.Join(s.dir, MappingFile)
}

// MetadataPath returns the metadata artifact path.
func (s *Store) MetadataPath() string {
	return filepath.Join(s.dir, MetadataFile)
}

// LoadMapping reads a previously persisted mapping. Returns nil, nil when
// no mapping has been persisted yet.
func (s *Store) LoadMapping() (catalog.Mapping, error) {
	data, err := os.ReadFile(s.MappingPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", s.MappingPath(), err)
	}

	var mapping catalog.Mapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, errors.WrapParse("json", s.MappingPath(), err)
	}
	return mapping, nil
}

// LoadMetadata reads the previous run's metadata. Returns nil, nil when no
// metadata has been persisted yet.
func (s *Store) LoadMetadata() (*catalog.RunMetadata, error) {
	data, err := os.ReadFile(s.MetadataPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", s.MetadataPath(), err)
	}

	var meta catalog.RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.WrapParse("json", s.MetadataPath(), err)
	}
	return &meta, nil
}

// WriteMapping persists the mapping as a JSON object whose members are
// ordered by game label. encoding/json would sort an object by key, so the
// document is assembled by hand from the sorted entries.
func (s *Store) WriteMapping(mapping catalog.Mapping) error {
	entries := mapping.Sorted()

	var sb strings.Builder
	sb.WriteString("{\n")
	for i, entry := range entries {
		label, err := encodeString(entry.Label)
		if err != nil {
			return err
		}
		sb.WriteString(`    "` + entry.CaptureID + `": ` + label)
		if i < len(entries)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")

	return s.writeAtomic(s.MappingPath(), []byte(sb.String()))
}

// WriteMetadata persists the run metadata.
func (s *Store) WriteMetadata(meta catalog.RunMetadata) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return errors.WrapParse("json", s.MetadataPath(), err)
	}

	return s.writeAtomic(s.MetadataPath(), buf.Bytes())
}

// writeAtomic writes data via a temp file and rename so a crashed run never
// leaves a half-written artifact behind.
func (s *Store) writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.WrapIO("create", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// encodeString encodes a JSON string without HTML escaping, so labels like
// "Mario & Sonic" stay readable in diffs.
func encodeString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", errors.WrapParse("json", "label", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
