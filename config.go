package vestige

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/farcloser/primordium/fault"
	"gopkg.in/yaml.v3"
)

// LoadOptions reads a YAML options file layered over DefaultOptions.
func LoadOptions(path string) (Options, error) {
	file, err := os.Open(path) //nolint:gosec // user-specified configuration file
	if err != nil {
		return Options{}, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	return ParseOptions(file)
}

// ParseOptions decodes YAML options layered over DefaultOptions. Unknown keys are rejected.
func ParseOptions(reader io.Reader) (Options, error) {
	opts := DefaultOptions()

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	if err := decoder.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}

	return opts, nil
}
