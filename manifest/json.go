package manifest

import (
	"bytes"
	"encoding/json"

	"github.com/ruvdl/ruvdl/source"
)

// encodeJSON writes the episodes as an indented array, keeping non-ASCII text readable.
func encodeJSON(m *source.Manifest) ([]byte, error) {
	episodes := m.Episodes
	if episodes == nil {
		episodes = []*source.Metadata{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(episodes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
