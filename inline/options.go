package inline

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ruvdl/ruvdl/source"
	"github.com/ruvdl/ruvdl/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type EpisodesFilter func([]*source.Candidate) ([]*source.Candidate, error)

type Options struct {
	Out    io.Writer
	Source source.Source
	URL    string
	Json   bool
	// Metadata extracts every listed episode page as well.
	Metadata       bool
	EpisodesFilter mo.Option[EpisodesFilter]
	// Delay is the pause between two episode extractions.
	Delay time.Duration
	// Sleep defaults to network.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// ParseEpisodesFilter parses a filter description.
// Format: "first", "last", "all", "3" (third episode), "2-5" (inclusive), "@text@" (title contains text).
// Episode numbers start at 1.
func ParseEpisodesFilter(description string) (EpisodesFilter, error) {
	switch description {
	case "first":
		return func(episodes []*source.Candidate) ([]*source.Candidate, error) {
			if len(episodes) == 0 {
				return episodes, nil
			}
			return episodes[:1], nil
		}, nil
	case "last":
		return func(episodes []*source.Candidate) ([]*source.Candidate, error) {
			if len(episodes) == 0 {
				return episodes, nil
			}
			return episodes[len(episodes)-1:], nil
		}, nil
	case "all":
		return func(episodes []*source.Candidate) ([]*source.Candidate, error) {
			return episodes, nil
		}, nil
	}

	// Range: "1-5"
	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.ParseUint(from, 10, 16)
		end, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil && start >= 1 {
			return func(episodes []*source.Candidate) ([]*source.Candidate, error) {
				n := uint64(len(episodes))
				first, last := util.Min(start-1, n), util.Min(end, n)
				if first >= last {
					return []*source.Candidate{}, nil
				}
				return episodes[first:last], nil
			}, nil
		}
	}

	// Substring: "@text@"
	if len(description) >= 2 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(episodes []*source.Candidate) ([]*source.Candidate, error) {
			return lo.Filter(episodes, func(e *source.Candidate, _ int) bool {
				return strings.Contains(strings.ToLower(e.Title), sub)
			}), nil
		}, nil
	}

	// Single episode: "5"
	if n, err := strconv.ParseUint(description, 10, 16); err == nil && n >= 1 {
		return func(episodes []*source.Candidate) ([]*source.Candidate, error) {
			if uint64(len(episodes)) < n {
				return []*source.Candidate{}, nil
			}
			return []*source.Candidate{episodes[n-1]}, nil
		}, nil
	}

	return nil, fmt.Errorf("invalid episode filter: %s", description)
}
