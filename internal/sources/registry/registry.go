// Package registry constructs catalog sources by ID.
package registry

import (
	"github.com/nxshot/capturedb/internal/sources"
	"github.com/nxshot/capturedb/internal/sources/nswdb"
	"github.com/nxshot/capturedb/internal/sources/switchbrew"
	"github.com/nxshot/capturedb/internal/sources/titledb"
	"github.com/nxshot/capturedb/internal/transport"
	"github.com/nxshot/capturedb/pkg/errors"
)

// New constructs the source for an ID with a transport client sized for
// that catalog.
func New(id sources.ID) (sources.Source, error) {
	switch id {
	case sources.SwitchbrewID:
		return switchbrew.New(transport.New(transport.DefaultTimeout)), nil
	case sources.NSWDBID:
		return nswdb.New(transport.New(transport.DefaultTimeout)), nil
	case sources.TitleDBID:
		return titledb.New(transport.New(titledb.Timeout)), nil
	default:
		return nil, errors.NewConfigError("sources", "unknown source "+id.String(), nil)
	}
}

// Build constructs sources for an ordered ID list, preserving the order.
func Build(order []sources.ID) ([]sources.Source, error) {
	built := make([]sources.Source, 0, len(order))
	for _, id := range order {
		src, err := New(id)
		if err != nil {
			return nil, err
		}
		built = append(built, src)
	}
	return built, nil
}
