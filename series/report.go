package series

import (
	"time"

	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
)

// Outcome is what happened to one episode during a run.
type Outcome string

const (
	// Downloaded means metadata was recorded and the media saved.
	Downloaded Outcome = "downloaded"
	// Recorded means metadata was recorded and downloads are disabled.
	Recorded Outcome = "recorded"
	// Skipped means metadata was recorded and the media already exists.
	Skipped Outcome = "skipped"
	// DownloadFailed means metadata was recorded but the media could not be saved.
	DownloadFailed Outcome = "download failed"
	// Failed means the episode page could not be read; it is not in the manifest.
	Failed Outcome = "failed"
)

// EpisodeReport is the outcome of one candidate.
type EpisodeReport struct {
	Index     int
	Candidate *source.Candidate
	Metadata  *source.Metadata
	Outcome   Outcome
	Path      string
	Method    string
	Size      int64
	Err       error
}

// Report summarises a run.
type Report struct {
	RunID    string
	Series   *source.Series
	Dir      string
	Episodes []*EpisodeReport
	// Manifests are the files written at the end of the run.
	Manifests []string
	Started   time.Time
	Finished  time.Time
}

// Count returns how many episodes ended with outcome.
func (r *Report) Count(outcome Outcome) int {
	return lo.CountBy(r.Episodes, func(e *EpisodeReport) bool {
		return e.Outcome == outcome
	})
}

// Failures returns the episodes that ended in an error.
func (r *Report) Failures() []*EpisodeReport {
	return lo.Filter(r.Episodes, func(e *EpisodeReport, _ int) bool {
		return e.Err != nil
	})
}

func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
