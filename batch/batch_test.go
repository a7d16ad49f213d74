package batch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

const batchFile = `
output_dir = "test_downloads"
limit = 2

[[series]]
url = "https://www.ruv.is/sjonvarp/spila/bubbi-byggir/37750/b80cbf"
title = "Bubbi byggir"
expect = ["Moki álfur.mkv", "Ofur-Skófli.mkv"]

[[series]]
url = "https://www.ruv.is/sjonvarp/spila/sammi-brunavordur-x/37768/b85s4f"
limit = 5
`

func TestLoadFile(t *testing.T) {
	Convey("Given a batch file", t, func() {
		path := filepath.Join("batch", "series.toml")
		lo.Must0(filesystem.WriteAtomic(path, []byte(batchFile)))

		file, err := LoadFile(path)
		So(err, ShouldBeNil)
		So(file.OutputDir, ShouldEqual, "test_downloads")
		So(file.Series, ShouldHaveLength, 2)

		Convey("The file limit should apply unless a series sets its own", func() {
			So(file.Series[0].Limit, ShouldEqual, 2)
			So(file.Series[1].Limit, ShouldEqual, 5)
		})

		Convey("Expectations should be decoded", func() {
			So(file.Series[0].Expect, ShouldResemble, []string{"Moki álfur.mkv", "Ofur-Skófli.mkv"})
			So(file.Series[1].String(), ShouldEqual, file.Series[1].URL)
		})
	})

	Convey("Invalid batch files should be rejected", t, func() {
		for name, content := range map[string]string{
			"empty.toml":     `limit = 1`,
			"nourl.toml":     "[[series]]\ntitle = \"x\"",
			"duplicate.toml": "[[series]]\nurl = \"a\"\n[[series]]\nurl = \"a\"",
			"broken.toml":    `[[series`,
		} {
			path := filepath.Join("batch", name)
			lo.Must0(filesystem.WriteAtomic(path, []byte(content)))
			_, err := LoadFile(path)
			So(err, ShouldNotBeNil)
		}
	})
}

type fakeLauncher struct {
	mu      sync.Mutex
	fail    map[string]bool
	running int32
	peak    int32
}

func (f *fakeLauncher) Launch(_ context.Context, job *Job) ([]byte, error) {
	now := atomic.AddInt32(&f.running, 1)
	defer atomic.AddInt32(&f.running, -1)

	f.mu.Lock()
	if now > f.peak {
		f.peak = now
	}
	f.mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	if f.fail[job.URL] {
		return []byte("boom"), errors.New("exit status 1")
	}
	return []byte("ok"), nil
}

func TestRun(t *testing.T) {
	Convey("Given four jobs, one of which fails", t, func() {
		jobs := []*Job{{URL: "a"}, {URL: "b"}, {URL: "c"}, {URL: "d"}}
		launcher := &fakeLauncher{fail: map[string]bool{"c": true}}

		Convey("Every job should get a result in order", func() {
			results := Run(context.Background(), jobs, launcher, 0)
			So(results, ShouldHaveLength, 4)
			So(results[0].Job.URL, ShouldEqual, "a")
			So(results[2].OK(), ShouldBeFalse)
			So(results[2].ExitCode, ShouldEqual, -1)
			So(string(results[2].Output), ShouldEqual, "boom")
			So(results[3].OK(), ShouldBeTrue)
		})

		Convey("The parallel limit should be respected", func() {
			Run(context.Background(), jobs, launcher, 2)
			So(launcher.peak, ShouldBeLessThanOrEqualTo, int32(2))
		})
	})
}

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

	if os.Getenv("RUVDL_HELPER_MODE") == "fail" {
		os.Exit(3)
	}
	os.Exit(0)
}

func TestExec(t *testing.T) {
	Convey("Given the process launcher", t, func() {
		e := &Exec{Executable: "ruvdl", OutputDir: "test_downloads", Extra: []string{"--no-download"}}
		job := &Job{URL: "https://www.ruv.is/x", Limit: 2}

		Convey("Args should carry the job settings", func() {
			So(e.Args(job), ShouldResemble, []string{
				"https://www.ruv.is/x", "--limit", "2", "--output-dir", "test_downloads", "--no-download",
			})
		})

		Convey("The exit code should decide success", func() {
			captured := fakeCommand(t, "fail")
			results := Run(context.Background(), []*Job{job}, e, 1)
			So(results[0].OK(), ShouldBeFalse)
			So(results[0].ExitCode, ShouldEqual, 3)
			So((*captured)[0], ShouldEqual, "ruvdl")

			fakeCommand(t, "ok")
			results = Run(context.Background(), []*Job{job}, e, 1)
			So(results[0].OK(), ShouldBeTrue)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a finished series directory", t, func() {
		root := filepath.Join("verify", t.Name())
		dir := filepath.Join(root, "Bubbi byggir")
		for _, name := range []string{"info.nfo", "download_info.json", "Moki álfur.mkv", "Ofur-Skófli.mkv"} {
			lo.Must0(filesystem.WriteAtomic(filepath.Join(dir, name), []byte("x")))
		}

		job := &Job{Title: "Bubbi byggir", Expect: []string{"Moki álfur.mkv", "Ofur-Skófli.mkv"}}

		Convey("Matching files should pass", func() {
			v := Verify(root, job, true)
			So(v.OK(), ShouldBeTrue)
			So(v.String(), ShouldEqual, "ok")
		})

		Convey("A missing video should be reported", func() {
			job.Expect = append(job.Expect, "Gamli Skófli.mkv")
			v := Verify(root, job, false)
			So(v.OK(), ShouldBeFalse)
			So(v.Missing, ShouldResemble, []string{"Gamli Skófli.mkv"})
		})

		Convey("Extra files should only fail in strict mode", func() {
			lo.Must0(filesystem.WriteAtomic(filepath.Join(dir, "Moki álfur.description"), []byte("x")))
			So(Verify(root, job, false).OK(), ShouldBeTrue)

			v := Verify(root, job, true)
			So(v.Extra, ShouldResemble, []string{"Moki álfur.description"})
			So(v.String(), ShouldContainSubstring, "extra")
			lo.Must0(filesystem.API().Remove(filepath.Join(dir, "Moki álfur.description")))
		})

		Convey("A missing manifest should fail", func() {
			lo.Must0(filesystem.API().Remove(filepath.Join(dir, "info.nfo")))
			So(Verify(root, job, false).Err, ShouldNotBeNil)
		})

		Convey("A missing directory or title should fail", func() {
			So(Verify(root, &Job{Title: "Annað"}, false).Err, ShouldNotBeNil)
			So(errors.Is(Verify(root, &Job{}, false).Err, ErrNoTitle), ShouldBeTrue)
		})
	})
}
