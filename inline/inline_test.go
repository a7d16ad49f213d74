package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type testSource struct{}

func (testSource) ID() string   { return "test" }
func (testSource) Name() string { return "Test" }

func (testSource) Series(_ context.Context, url string) (*source.Series, error) {
	return &source.Series{
		Title: "Bubbi byggir",
		URL:   url,
		Episodes: []*source.Candidate{
			{URL: "https://x/1", Title: "Moki álfur"},
			{URL: "https://x/2", Title: "Ofur-Skófli"},
			{URL: "https://x/3", Title: "Gamli Skófli"},
		},
	}, nil
}

func (testSource) Episode(_ context.Context, c *source.Candidate) (*source.Metadata, error) {
	if c.URL == "https://x/3" {
		return nil, errors.New("status 500")
	}
	return &source.Metadata{Title: c.Title, URL: c.URL, MediaURL: mo.Some(c.URL + ".m3u8")}, nil
}

func TestWriteJson(t *testing.T) {
	Convey("writeJson", t, func() {
		Convey("Should produce valid JSON for an empty series", func() {
			var buf bytes.Buffer
			opts := &Options{Out: &buf, Json: true}
			err := writeJson(opts, &Output{URL: "test"})
			So(err, ShouldBeNil)

			var output Output
			err = json.Unmarshal(buf.Bytes(), &output)
			So(err, ShouldBeNil)
			So(output.URL, ShouldEqual, "test")
			So(output.Episodes, ShouldHaveLength, 0)
			So(buf.String(), ShouldContainSubstring, `"episodes":[]`)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a series of three episodes", t, func() {
		var buf bytes.Buffer
		opts := &Options{Out: &buf, Source: testSource{}, URL: "https://x/series"}

		Convey("Plain output should list one URL per line", func() {
			So(Run(context.Background(), opts), ShouldBeNil)
			So(strings.Split(strings.TrimSpace(buf.String()), "\n"), ShouldResemble, []string{
				"https://x/1", "https://x/2", "https://x/3",
			})
		})

		Convey("JSON output should keep episode numbers through the filter", func() {
			opts.Json = true
			opts.EpisodesFilter = mo.Some(lo.Must(ParseEpisodesFilter("2-3")))
			opts.Metadata = true
			So(Run(context.Background(), opts), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Title, ShouldEqual, "Bubbi byggir")
			So(output.Source, ShouldEqual, "test")
			So(output.Episodes, ShouldHaveLength, 2)
			So(output.Episodes[0].Number, ShouldEqual, 2)
			So(output.Episodes[0].Metadata.MediaURL.OrEmpty(), ShouldEqual, "https://x/2.m3u8")
			So(output.Episodes[1].Metadata, ShouldBeNil)
			So(output.Episodes[1].Error, ShouldEqual, "status 500")
		})

		Convey("Plain output with metadata should add the media URL", func() {
			opts.Metadata = true
			opts.EpisodesFilter = mo.Some(lo.Must(ParseEpisodesFilter("first")))
			So(Run(context.Background(), opts), ShouldBeNil)
			So(buf.String(), ShouldEqual, "https://x/1\thttps://x/1.m3u8\n")
		})

		Convey("Metadata extraction should pause between episodes", func() {
			var pauses []time.Duration
			opts.Metadata = true
			opts.Delay = 3 * time.Second
			opts.Sleep = func(_ context.Context, d time.Duration) error {
				pauses = append(pauses, d)
				return nil
			}

			So(Run(context.Background(), opts), ShouldBeNil)
			So(pauses, ShouldResemble, []time.Duration{3 * time.Second, 3 * time.Second})

			Convey("And stop when the pause is interrupted", func() {
				opts.Sleep = func(ctx context.Context, _ time.Duration) error {
					return context.Canceled
				}
				buf.Reset()
				So(Run(context.Background(), opts), ShouldEqual, context.Canceled)
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("A single episode should not pause", func() {
			paused := false
			opts.Metadata = true
			opts.Delay = time.Second
			opts.EpisodesFilter = mo.Some(lo.Must(ParseEpisodesFilter("last")))
			opts.Sleep = func(context.Context, time.Duration) error {
				paused = true
				return nil
			}

			So(Run(context.Background(), opts), ShouldBeNil)
			So(paused, ShouldBeFalse)
		})
	})
}

func TestParseEpisodesFilter(t *testing.T) {
	episodes := []*source.Candidate{
		{Title: "Moki álfur"}, {Title: "Ofur-Skófli"}, {Title: "Gamli Skófli"}, {Title: "Hundafár"},
	}
	titles := func(description string) []string {
		filter := lo.Must(ParseEpisodesFilter(description))
		got := lo.Must(filter(episodes))
		return lo.Map(got, func(c *source.Candidate, _ int) string { return c.Title })
	}

	Convey("Filters should select episodes", t, func() {
		So(titles("first"), ShouldResemble, []string{"Moki álfur"})
		So(titles("last"), ShouldResemble, []string{"Hundafár"})
		So(titles("all"), ShouldHaveLength, 4)
		So(titles("2"), ShouldResemble, []string{"Ofur-Skófli"})
		So(titles("9"), ShouldBeEmpty)
		So(titles("2-3"), ShouldResemble, []string{"Ofur-Skófli", "Gamli Skófli"})
		So(titles("3-99"), ShouldResemble, []string{"Gamli Skófli", "Hundafár"})
		So(titles("@SKÓFLI@"), ShouldResemble, []string{"Ofur-Skófli", "Gamli Skófli"})
	})

	Convey("Invalid filters should fail", t, func() {
		for _, description := range []string{"", "0", "0-2", "abc", "@"} {
			_, err := ParseEpisodesFilter(description)
			So(err, ShouldNotBeNil)
		}
	})
}

func TestSchema(t *testing.T) {
	Convey("Schema should describe the output", t, func() {
		data, err := Schema()
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"episodes"`)
		So(string(data), ShouldContainSubstring, `"video_url"`)
	})
}
