package filesystem

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestWriteAtomic(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()

		Convey("WriteAtomic should create parents and leave no temp file", func() {
			So(WriteAtomic("/out/series/info.nfo", []byte("<tvshow/>")), ShouldBeNil)

			data := lo.Must(API().ReadFile("/out/series/info.nfo"))
			So(string(data), ShouldEqual, "<tvshow/>")
			So(lo.Must(API().Exists("/out/series/info.nfo.tmp")), ShouldBeFalse)
		})

		Convey("WriteAtomic should replace existing content", func() {
			So(WriteAtomic("/a.json", []byte("1")), ShouldBeNil)
			So(WriteAtomic("/a.json", []byte("2")), ShouldBeNil)
			So(string(lo.Must(API().ReadFile("/a.json"))), ShouldEqual, "2")
		})
	})
}
