package sources

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/nxshot/capturedb/pkg/errors"
)

// orderFile is the on-disk shape of a source order override.
type orderFile struct {
	Sources []ID `yaml:"sources"`
}

// LoadOrder reads a source precedence order from a YAML file of the form:
//
//	sources:
//	  - switchbrew
//	  - nswdb
//	  - titledb
//
// Returns DefaultOrder when path is empty or the file doesn't exist. The
// merge policy is deliberately a first-class input rather than hard-coded
// call order.
func LoadOrder(path string) ([]ID, error) {
	if path == "" {
		return DefaultOrder(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultOrder(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var file orderFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	if len(file.Sources) == 0 {
		return nil, errors.NewConfigError("sources", fmt.Sprintf("%s lists no sources", path), nil)
	}
	for _, id := range file.Sources {
		if !id.IsValid() {
			return nil, errors.NewConfigError("sources", fmt.Sprintf("unknown source %q in %s", id, path), nil)
		}
	}

	return file.Sources, nil
}
