package history

import (
	"fmt"
	"time"

	"github.com/ruvdl/ruvdl/source"
)

// SavedEpisode is a downloaded episode.
type SavedEpisode struct {
	SourceID     string    `json:"source_id"`
	SeriesTitle  string    `json:"series_title"`
	SeriesURL    string    `json:"series_url"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Path         string    `json:"path"`
	Method       string    `json:"method"`
	Size         int64     `json:"size"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

func (s *SavedEpisode) encode() string {
	return s.URL
}

func (s *SavedEpisode) String() string {
	return fmt.Sprintf("%s : %s", s.SeriesTitle, s.Title)
}

// NewSavedEpisode builds a record for an episode of series saved at path.
func NewSavedEpisode(sourceID string, series *source.Series, meta *source.Metadata, path, method string, size int64) *SavedEpisode {
	return &SavedEpisode{
		SourceID:     sourceID,
		SeriesTitle:  series.Title,
		SeriesURL:    series.URL,
		Title:        meta.Title,
		URL:          meta.URL,
		Path:         path,
		Method:       method,
		Size:         size,
		DownloadedAt: time.Now(),
	}
}
