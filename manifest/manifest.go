// Package manifest writes the record of a series run next to the downloaded files.
package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ruvdl/ruvdl/constant"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
)

const (
	JSON = "json"
	NFO  = "nfo"
)

var ErrUnknownFormat = errors.New("unknown manifest format")

type encoder struct {
	filename string
	encode   func(*source.Manifest) ([]byte, error)
}

var encoders = map[string]encoder{
	JSON: {filename: constant.ManifestJSON, encode: encodeJSON},
	NFO:  {filename: constant.ManifestNFO, encode: encodeNFO},
}

// Formats lists the supported formats in a stable order.
func Formats() []string {
	formats := lo.Keys(encoders)
	sort.Strings(formats)
	return formats
}

// Filename returns the file a format is written to.
func Filename(format string) (string, error) {
	enc, ok := encoders[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return enc.filename, nil
}

// Write serialises m once per format and writes each file into dir.
// All formats are validated before anything is written.
// The returned paths follow the order of formats.
func Write(dir string, m *source.Manifest, formats ...string) ([]string, error) {
	formats = lo.Uniq(formats)

	for _, format := range formats {
		if _, ok := encoders[format]; !ok {
			return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownFormat, format, Formats())
		}
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		enc := encoders[format]

		data, err := enc.encode(m)
		if err != nil {
			return paths, fmt.Errorf("encode %s manifest: %w", format, err)
		}

		path := filepath.Join(dir, enc.filename)
		if err := filesystem.WriteAtomic(path, data); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}
