package scan

import (
	"os"

	"github.com/2x3systems/gotrie/gotrie"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadOpts reads ScanOpts from a YAML file, starting from DefaultScanOpts so absent keys keep their defaults.
func LoadOpts(pathname string) (gotrie.ScanOpts, error) {
	opts := gotrie.DefaultScanOpts()

	data, err := os.ReadFile(pathname)
	if err != nil {
		return opts, errors.Wrapf(err, "reading config '%s'", pathname)
	}
	if err = yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrapf(err, "parsing config '%s'", pathname)
	}
	return opts, nil
}

// SaveOpts writes opts as YAML.
func SaveOpts(pathname string, opts gotrie.ScanOpts) error {
	data, err := yaml.Marshal(&opts)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(pathname, data, 0644), "writing config '%s'", pathname)
}
