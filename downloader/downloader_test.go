package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

// fakeCommand makes every command run TestHelperProcess in the given mode
// and records the arguments it was started with.
func fakeCommand(t *testing.T, mode string) *[]string {
	t.Helper()

	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string{name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "RUVDL_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	return &captured
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("RUVDL_HELPER_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "ERROR: [ruv] b85s4g: Unable to extract video data")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}

func request() *Request {
	return &Request{
		PageURL: "https://www.ruv.is/sjonvarp/spila/sammi/1/a",
		Title:   "Sammi 100% / Spýtubjörn",
		Dir:     filepath.Join("downloads", "Sammi"),
	}
}

func TestYtDlp(t *testing.T) {
	Convey("Given the external downloader", t, func() {
		y := &YtDlp{Path: "yt-dlp", Args: []string{"--format", "best", "--geo-bypass"}}

		Convey("Command should put the output first and the page URL last", func() {
			args := y.Command(request())
			So(args[0], ShouldEqual, "--output")
			So(args[1], ShouldEqual, filepath.Join("downloads", "Sammi", "Sammi 100%% _ Spýtubjörn.mkv"))
			So(args[2:5], ShouldResemble, []string{"--format", "best", "--geo-bypass"})
			So(args[len(args)-1], ShouldEqual, request().PageURL)
		})

		Convey("A zero exit status should succeed", func() {
			captured := fakeCommand(t, "ok")
			fs := filesystem.API()
			stem := filepath.Join("downloads", "Sammi", "Sammi 100% _ Spýtubjörn")
			lo.Must0(fs.MkdirAll(filepath.Dir(stem), os.ModePerm))
			lo.Must0(fs.WriteFile(stem+".description", []byte("x"), 0o644))

			result, err := y.Download(context.Background(), request())
			So(err, ShouldBeNil)
			So(result.Method, ShouldEqual, MethodYtDlp)
			So(result.Path, ShouldEqual, stem+".mkv")
			So((*captured)[0], ShouldEqual, "yt-dlp")

			Convey("Sidecars should be removed unless kept", func() {
				exists := lo.Must(fs.Exists(stem + ".description"))
				So(exists, ShouldBeFalse)
			})
		})

		Convey("A non-zero exit status should fail with stderr", func() {
			fakeCommand(t, "fail")

			_, err := y.Download(context.Background(), request())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "Unable to extract video data")
		})
	})
}

func TestHLS(t *testing.T) {
	Convey("Given the HLS remuxer", t, func() {
		h := &HLS{Binary: "ffmpeg", UserAgent: "test-agent"}
		req := request()

		Convey("It should only accept playlists", func() {
			So(h.Accepts(req), ShouldBeFalse)

			req.MediaURL = mo.Some("https://ruv-vod.akamaized.net/ep.mp4")
			So(h.Accepts(req), ShouldBeFalse)

			req.MediaURL = mo.Some("https://ruv-vod.akamaized.net/ep/index.m3u8?token=1")
			So(h.Accepts(req), ShouldBeTrue)
		})

		Convey("Command should copy streams into an mkv", func() {
			req.MediaURL = mo.Some("https://ruv-vod.akamaized.net/ep/index.m3u8")
			args := h.Command(req)

			So(args, ShouldContain, "-i")
			So(args, ShouldContain, "https://ruv-vod.akamaized.net/ep/index.m3u8")
			So(args, ShouldContain, "copy")
			So(args, ShouldContain, "test-agent")
			So(args, ShouldContain, "-y")
			So(args, ShouldContain, filepath.Join("downloads", "Sammi", "Sammi 100% _ Spýtubjörn.mkv"))
		})

		Convey("Download should run the binary", func() {
			captured := fakeCommand(t, "ok")
			req.MediaURL = mo.Some("https://ruv-vod.akamaized.net/ep/index.m3u8")

			result, err := h.Download(context.Background(), req)
			So(err, ShouldBeNil)
			So(result.Method, ShouldEqual, MethodHLS)
			So((*captured)[0], ShouldEqual, "ffmpeg")
		})
	})
}

type fakeStreamer struct {
	body string
	err  error
	urls []string
}

func (f *fakeStreamer) Stream(_ context.Context, url string, w io.Writer) (int64, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return 0, f.err
	}
	n, err := io.Copy(w, strings.NewReader(f.body))
	return n, err
}

func TestStream(t *testing.T) {
	Convey("Given the direct media fetcher", t, func() {
		streamer := &fakeStreamer{body: "video bytes"}
		s := &Stream{Client: streamer}
		req := request()
		req.Dir = filepath.Join("streamed", "Sammi")

		Convey("It should require a media URL", func() {
			So(s.Accepts(req), ShouldBeFalse)
			_, err := s.Download(context.Background(), req)
			So(err, ShouldNotBeNil)
		})

		Convey("It should save the body under the media extension", func() {
			req.MediaURL = mo.Some("https://ruv-vod.akamaized.net/ep.MP4?x=1")
			result, err := s.Download(context.Background(), req)
			So(err, ShouldBeNil)
			So(result.Method, ShouldEqual, MethodStream)
			So(result.Size, ShouldEqual, int64(len("video bytes")))
			So(result.Path, ShouldEndWith, ".mp4")

			data := lo.Must(filesystem.API().ReadFile(result.Path))
			So(string(data), ShouldEqual, "video bytes")

			exists := lo.Must(filesystem.API().Exists(result.Path + ".part"))
			So(exists, ShouldBeFalse)
		})

		Convey("It should default to mp4 and clean up on failure", func() {
			streamer.err = errors.New("connection reset")
			req.MediaURL = mo.Some("https://ruv-vod.akamaized.net/stream")

			_, err := s.Download(context.Background(), req)
			So(err, ShouldNotBeNil)

			part := OutputPath(req.Dir, req.Title, ".mp4") + ".part"
			exists := lo.Must(filesystem.API().Exists(part))
			So(exists, ShouldBeFalse)
		})
	})
}

type fakeDownloader struct {
	method  string
	err     error
	accepts bool
	calls   int
}

func (f *fakeDownloader) Download(context.Context, *Request) (*Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Result{Method: f.method}, nil
}

func (f *fakeDownloader) Accepts(*Request) bool {
	return f.accepts
}

func TestChain(t *testing.T) {
	Convey("Given a chain with a failing primary", t, func() {
		primary := &fakeDownloader{method: "primary", err: errors.New("geo blocked")}
		skipped := &fakeDownloader{method: "skipped", accepts: false}
		fallback := &fakeDownloader{method: "fallback", accepts: true}
		chain := &Chain{Primary: primary, Fallbacks: []Fallback{skipped, fallback}}
		req := request()

		Convey("No fallback should run without a media URL", func() {
			_, err := chain.Download(context.Background(), req)
			So(errors.Is(err, ErrNoFallback), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "geo blocked")
			So(fallback.calls, ShouldEqual, 0)
		})

		Convey("The first accepting fallback should run with a media URL", func() {
			req.MediaURL = mo.Some("https://x/a.mp4")
			result, err := chain.Download(context.Background(), req)
			So(err, ShouldBeNil)
			So(result.Method, ShouldEqual, "fallback")
			So(skipped.calls, ShouldEqual, 0)
		})

		Convey("A failing fallback should report both errors", func() {
			req.MediaURL = mo.Some("https://x/a.mp4")
			fallback.err = errors.New("403")
			_, err := chain.Download(context.Background(), req)
			So(err.Error(), ShouldContainSubstring, "403")
			So(err.Error(), ShouldContainSubstring, "geo blocked")
		})

		Convey("Nothing accepting should be ErrNoFallback", func() {
			req.MediaURL = mo.Some("https://x/a.mp4")
			chain.Fallbacks = []Fallback{skipped}
			_, err := chain.Download(context.Background(), req)
			So(errors.Is(err, ErrNoFallback), ShouldBeTrue)
		})
	})

	Convey("A succeeding primary should be the only call", t, func() {
		primary := &fakeDownloader{method: "primary"}
		fallback := &fakeDownloader{accepts: true}
		chain := &Chain{Primary: primary, Fallbacks: []Fallback{fallback}}

		result, err := chain.Download(context.Background(), request())
		So(err, ShouldBeNil)
		So(result.Method, ShouldEqual, "primary")
		So(fallback.calls, ShouldEqual, 0)
	})
}

func TestCheckBinaries(t *testing.T) {
	Convey("CheckBinaries should report what is on PATH", t, func() {
		original := lookPath
		lookPath = func(name string) (string, error) {
			if name == "yt-dlp" {
				return "/usr/bin/yt-dlp", nil
			}
			return "", exec.ErrNotFound
		}
		defer func() { lookPath = original }()

		got := CheckBinaries("yt-dlp", "ffmpeg")
		So(got, ShouldHaveLength, 2)
		So(got[0].Found(), ShouldBeTrue)
		So(got[1].Found(), ShouldBeFalse)
	})
}

func TestOutputPath(t *testing.T) {
	Convey("OutputPath should sanitise the title", t, func() {
		So(OutputPath("d", `a:b?`, ".mkv"), ShouldEqual, filepath.Join("d", "a_b_.mkv"))
		So(OutputPath("d", "  ", ".mkv"), ShouldEqual, filepath.Join("d", "episode.mkv"))
	})

	Convey("mediaExt should read the URL path", t, func() {
		So(mediaExt("https://x/a.m3u8?b=c.mp4", ""), ShouldEqual, ".m3u8")
		So(mediaExt("https://x/a", ".mp4"), ShouldEqual, ".mp4")
	})

}
