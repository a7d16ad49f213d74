// Package batch runs several series at once, each in its own ruvdl process,
// and checks what they left on disk.
package batch

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/samber/lo"
)

// Job is one series of a batch file.
type Job struct {
	URL string `toml:"url"`
	// Title is the expected series title. It names the directory checked by Verify.
	Title string `toml:"title"`
	// Limit overrides the file limit when positive.
	Limit int `toml:"limit"`
	// Expect lists the video files the series directory should end up with.
	Expect []string `toml:"expect"`
}

func (j *Job) String() string {
	if j.Title != "" {
		return j.Title
	}
	return j.URL
}

// File is a batch file:
//
//	output_dir = "test_downloads"
//	limit = 2
//
//	[[series]]
//	url = "https://www.ruv.is/sjonvarp/spila/bubbi-byggir/37750/b80cbf"
//	title = "Bubbi byggir"
//	expect = ["Moki álfur.mkv", "Ofur-Skófli.mkv"]
type File struct {
	OutputDir string `toml:"output_dir"`
	Limit     int    `toml:"limit"`
	Series    []*Job `toml:"series"`
}

// LoadFile reads and validates a batch file.
func LoadFile(path string) (*File, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if len(file.Series) == 0 {
		return nil, fmt.Errorf("%s: no [[series]] entries", path)
	}

	for i, job := range file.Series {
		if job.URL == "" {
			return nil, fmt.Errorf("%s: series %d: url is required", path, i+1)
		}
		if job.Limit <= 0 {
			job.Limit = file.Limit
		}
	}

	duplicates := lo.FindDuplicatesBy(file.Series, func(j *Job) string { return j.URL })
	if len(duplicates) > 0 {
		return nil, errors.Join(lo.Map(duplicates, func(j *Job, _ int) error {
			return fmt.Errorf("%s: duplicate series %s", path, j.URL)
		})...)
	}

	return &file, nil
}
