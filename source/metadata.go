package source

import "github.com/samber/mo"

// Metadata describes one episode page.
//
// MediaURL is absent when no heuristic located a playable resource; that is
// a normal outcome, not an error. Duration and AirDate are reserved and empty.
type Metadata struct {
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	MediaURL    mo.Option[string] `json:"video_url" jsonschema:"type=string"`
	Description string            `json:"description"`
	Duration    string            `json:"duration"`
	AirDate     string            `json:"air_date"`
}

func (m *Metadata) String() string {
	return m.Title
}

// Manifest is the final record of a series run, in processing order.
type Manifest struct {
	SeriesTitle string      `json:"series_title"`
	Episodes    []*Metadata `json:"episodes"`
}

// Append adds an episode at the end of the manifest.
func (m *Manifest) Append(meta *Metadata) {
	m.Episodes = append(m.Episodes, meta)
}
