package history

import (
	"testing"

	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a downloaded episode", t, func() {
		series := &source.Series{
			Title: "Bubbi byggir",
			URL:   "https://www.ruv.is/sjonvarp/spila/bubbi-byggir/37750/b80cbf",
		}
		meta := &source.Metadata{
			Title: "Moki álfur",
			URL:   "https://www.ruv.is/sjonvarp/spila/bubbi-byggir/37750/b80cbg",
		}
		path := "downloads/Bubbi byggir/Moki álfur.mkv"
		episode := NewSavedEpisode("ruv", series, meta, path, "yt-dlp", 42)

		Convey("When saving it", func() {
			So(Save(episode), ShouldBeNil)

			Convey("Then it should be listed under its page URL", func() {
				episodes, err := Get()
				So(err, ShouldBeNil)
				So(episodes[meta.URL].Title, ShouldEqual, "Moki álfur")
				So(episodes[meta.URL].SeriesTitle, ShouldEqual, "Bubbi byggir")
			})

			Convey("Then Lookup should need the file on disk", func() {
				lo.Must0(filesystem.API().WriteFile(path, []byte("x"), 0o644))
				So(Lookup(meta.URL).MustGet().Path, ShouldEqual, path)
			})

			Convey("Then Lookup should forget it once the file is gone", func() {
				_ = filesystem.API().Remove(path)
				So(Lookup(meta.URL).IsAbsent(), ShouldBeTrue)

				episodes, err := Get()
				So(err, ShouldBeNil)
				So(episodes, ShouldNotContainKey, meta.URL)
			})

			Convey("Then removing it should forget it", func() {
				So(Remove(episode), ShouldBeNil)
				episodes, err := Get()
				So(err, ShouldBeNil)
				So(episodes, ShouldNotContainKey, meta.URL)
			})
		})

		Convey("String should name the series and the episode", func() {
			So(episode.String(), ShouldEqual, "Bubbi byggir : Moki álfur")
		})
	})
}
