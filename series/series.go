// Package series runs the whole pipeline for one series page:
// discover the episodes, extract each one, download it and write the manifest.
package series

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/ruvdl/ruvdl/downloader"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/history"
	"github.com/ruvdl/ruvdl/internal/cache"
	"github.com/ruvdl/ruvdl/log"
	"github.com/ruvdl/ruvdl/manifest"
	"github.com/ruvdl/ruvdl/network"
	"github.com/ruvdl/ruvdl/source"
	"github.com/ruvdl/ruvdl/util"
	"github.com/ruvdl/ruvdl/where"
	"github.com/sirupsen/logrus"
)

// ErrLocked is returned when another process is writing the same series directory.
var ErrLocked = errors.New("series is locked by another run")

// Options configures one Run over a series.
type Options struct {
	URL    string
	Source source.Source
	// Downloader saves the media. Nil only records metadata.
	Downloader downloader.Downloader

	// Limit caps the number of episodes processed. 0 means all.
	Limit     int
	OutputDir string
	// Delay is the pause between two episodes.
	Delay time.Duration
	// Sleep waits between episodes. Defaults to network.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	// Formats are the manifest formats to write.
	Formats []string

	// SkipExisting skips downloads already on disk or in the history.
	SkipExisting bool
	// SaveHistory records each successful download.
	SaveHistory bool

	// LockDir holds the run locks. Defaults to where.Locks().
	LockDir string

	// Progress is called after each episode.
	Progress func(*EpisodeReport)
}

// Run processes one series. Only series level problems are returned as errors;
// episode problems end up in the report.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Started: time.Now()}
	entry := log.Fields(logrus.Fields{"run": report.RunID, "series": opts.URL})

	series, err := opts.Source.Series(ctx, opts.URL)
	if err != nil {
		entry.Error(err)
		return nil, err
	}
	report.Series = series

	dir := filepath.Join(opts.OutputDir, util.SanitizeFilename(series.Title))
	report.Dir = dir

	unlock, err := lock(opts.lockDir(), dir)
	if err != nil {
		entry.Error(err)
		return nil, err
	}
	defer unlock()

	if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	candidates := series.Episodes
	if opts.Limit > 0 && len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}
	entry.Infof("%s: %s", series.Title, util.Quantify(len(candidates), "episode", "episodes"))

	m := &source.Manifest{SeriesTitle: series.Title}
	var runErr error

	for i, candidate := range candidates {
		if i > 0 && opts.Delay > 0 {
			if runErr = opts.sleep(ctx, opts.Delay); runErr != nil {
				break
			}
		}

		episode := opts.episode(ctx, entry, series, dir, i, candidate)
		if episode.Metadata != nil {
			m.Append(episode.Metadata)
		}

		report.Episodes = append(report.Episodes, episode)
		if opts.Progress != nil {
			opts.Progress(episode)
		}
	}

	report.Manifests, err = manifest.Write(dir, m, opts.Formats...)
	report.Finished = time.Now()
	if err != nil {
		entry.Error(err)
		return report, err
	}

	return report, runErr
}

func (o *Options) episode(
	ctx context.Context,
	entry *logrus.Entry,
	series *source.Series,
	dir string,
	index int,
	candidate *source.Candidate,
) *EpisodeReport {
	report := &EpisodeReport{Index: index, Candidate: candidate}
	entry = entry.WithField("episode", candidate.URL)

	meta, err := o.Source.Episode(ctx, candidate)
	if err != nil {
		entry.Warn(err)
		report.Outcome, report.Err = Failed, err
		return report
	}
	report.Metadata = meta

	if meta.MediaURL.IsAbsent() {
		entry.Warn("no media url found")
	}

	if o.Downloader == nil {
		report.Outcome = Recorded
		return report
	}

	if o.SkipExisting {
		if path, ok := existing(dir, candidate).Get(); ok {
			entry.Infof("already downloaded to %s", path)
			report.Outcome, report.Path = Skipped, path
			return report
		}
	}

	result, err := o.Downloader.Download(ctx, &downloader.Request{
		PageURL:  candidate.URL,
		MediaURL: meta.MediaURL,
		Title:    candidate.Title,
		Dir:      dir,
	})
	if err != nil {
		entry.Error(err)
		report.Outcome, report.Err = DownloadFailed, err
		return report
	}

	report.Outcome = Downloaded
	report.Path, report.Method, report.Size = result.Path, result.Method, result.Size

	if o.SaveHistory {
		saved := history.NewSavedEpisode(o.Source.ID(), series, meta, result.Path, result.Method, result.Size)
		if err := history.Save(saved); err != nil {
			entry.Warnf("save history: %s", err)
		}
	}

	return report
}

func (o *Options) sleep(ctx context.Context, d time.Duration) error {
	if o.Sleep != nil {
		return o.Sleep(ctx, d)
	}
	return network.Sleep(ctx, d)
}

func (o *Options) lockDir() string {
	if o.LockDir != "" {
		return o.LockDir
	}
	return where.Locks()
}

// lock takes the run lock of dir. Lock files live on the real filesystem.
func lock(lockDir, dir string) (unlock func(), err error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	if err := os.MkdirAll(lockDir, os.ModePerm); err != nil {
		return nil, err
	}

	fl := flock.New(filepath.Join(lockDir, cache.Key(abs)+".lock"))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			log.Warnf("unlock %s: %s", dir, err)
		}
	}, nil
}
