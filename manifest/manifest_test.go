package manifest

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func sample() *source.Manifest {
	m := &source.Manifest{SeriesTitle: "Sammi brunavörður X"}
	m.Append(&source.Metadata{
		Title:       "Spýtubjörn",
		URL:         "https://www.ruv.is/sjonvarp/spila/sammi/1/a",
		MediaURL:    mo.Some("https://ruv-vod.akamaized.net/a.m3u8?x=1&y=2"),
		Description: "Sammi <3",
	})
	m.Append(&source.Metadata{
		Title:    "Hundafár",
		URL:      "https://www.ruv.is/sjonvarp/spila/sammi/1/b",
		MediaURL: mo.None[string](),
	})
	return m
}

func TestWrite(t *testing.T) {
	Convey("Given a manifest with two episodes", t, func() {
		dir := filepath.Join("out", "Sammi brunavörður X")
		m := sample()

		Convey("When written in both formats", func() {
			paths, err := Write(dir, m, JSON, NFO)
			So(err, ShouldBeNil)
			So(paths, ShouldResemble, []string{
				filepath.Join(dir, "download_info.json"),
				filepath.Join(dir, "info.nfo"),
			})

			Convey("The JSON file should list both episodes in order", func() {
				data := lo.Must(filesystem.API().ReadFile(paths[0]))

				var got []map[string]any
				So(json.Unmarshal(data, &got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0]["title"], ShouldEqual, "Spýtubjörn")
				So(got[0]["video_url"], ShouldEqual, "https://ruv-vod.akamaized.net/a.m3u8?x=1&y=2")
				So(got[1]["title"], ShouldEqual, "Hundafár")
				So(got[1]["video_url"], ShouldBeNil)

				So(string(data), ShouldContainSubstring, "Spýtubjörn")
				So(string(data), ShouldContainSubstring, "&y=2")
			})

			Convey("The NFO file should list both episodes in order", func() {
				data := lo.Must(filesystem.API().ReadFile(paths[1]))

				var got tvshow
				So(xml.Unmarshal(data, &got), ShouldBeNil)
				So(got.Title, ShouldEqual, "Sammi brunavörður X")
				So(got.Episodes, ShouldHaveLength, 2)
				So(got.Episodes[0].Title, ShouldEqual, "Spýtubjörn")
				So(got.Episodes[0].Plot, ShouldEqual, "Sammi <3")
				So(got.Episodes[1].Title, ShouldEqual, "Hundafár")
				So(got.Episodes[1].VideoURL, ShouldBeEmpty)
			})

			Convey("No temporary files should remain", func() {
				exists := lo.Must(filesystem.API().Exists(paths[0] + ".tmp"))
				So(exists, ShouldBeFalse)
			})
		})

		Convey("An unknown format should fail before anything is written", func() {
			other := filepath.Join("out", "other")
			_, err := Write(other, m, JSON, "yaml")
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)

			exists := lo.Must(filesystem.API().Exists(filepath.Join(other, "download_info.json")))
			So(exists, ShouldBeFalse)
		})

		Convey("An empty manifest should still be a JSON array", func() {
			empty := filepath.Join("out", "empty")
			paths, err := Write(empty, &source.Manifest{SeriesTitle: "x"}, JSON)
			So(err, ShouldBeNil)
			So(string(lo.Must(filesystem.API().ReadFile(paths[0]))), ShouldEqual, "[]\n")
		})
	})

	Convey("Formats should be sorted", t, func() {
		So(Formats(), ShouldResemble, []string{"json", "nfo"})
	})

	Convey("Filename should map formats to files", t, func() {
		So(lo.Must(Filename(NFO)), ShouldEqual, "info.nfo")
		_, err := Filename("txt")
		So(err, ShouldNotBeNil)
	})
}
