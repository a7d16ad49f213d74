package manifest

import (
	"encoding/xml"

	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
)

// tvshow is the Kodi style show record.
type tvshow struct {
	XMLName  xml.Name         `xml:"tvshow"`
	Title    string           `xml:"title"`
	Episodes []episodeDetails `xml:"episodedetails"`
}

type episodeDetails struct {
	Title    string `xml:"title"`
	Plot     string `xml:"plot,omitempty"`
	URL      string `xml:"url"`
	VideoURL string `xml:"video_url,omitempty"`
	Aired    string `xml:"aired,omitempty"`
	Runtime  string `xml:"runtime,omitempty"`
}

func encodeNFO(m *source.Manifest) ([]byte, error) {
	show := tvshow{
		Title: m.SeriesTitle,
		Episodes: lo.Map(m.Episodes, func(e *source.Metadata, _ int) episodeDetails {
			return episodeDetails{
				Title:    e.Title,
				Plot:     e.Description,
				URL:      e.URL,
				VideoURL: e.MediaURL.OrEmpty(),
				Aired:    e.AirDate,
				Runtime:  e.Duration,
			}
		}),
	}

	data, err := xml.MarshalIndent(show, "", "  ")
	if err != nil {
		return nil, err
	}

	out := append([]byte(xml.Header), data...)
	return append(out, '\n'), nil
}
