// Package downloader saves episode media to disk.
//
// The external downloader (yt-dlp) works from the episode page. When it fails
// and the scraper located a media URL, a fallback fetches that URL directly.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/ruvdl/ruvdl/util"
	"github.com/samber/mo"
)

var commandContext = exec.CommandContext

const (
	MethodYtDlp  = "yt-dlp"
	MethodStream = "stream"
	MethodHLS    = "hls"
)

// ErrNoFallback is returned when the primary downloader failed and no fallback could take over.
var ErrNoFallback = errors.New("no fallback available")

// Request describes one episode to download.
type Request struct {
	PageURL  string
	MediaURL mo.Option[string]
	Title    string
	// Dir is the series directory.
	Dir string
}

// Result is a finished download.
type Result struct {
	Path   string
	Method string
	// Size in bytes, 0 when unknown.
	Size int64
}

type Downloader interface {
	Download(ctx context.Context, req *Request) (*Result, error)
}

// Fallback is a Downloader that only handles some requests.
type Fallback interface {
	Downloader
	Accepts(req *Request) bool
}

// OutputPath is where an episode titled title is saved in dir.
func OutputPath(dir, title, ext string) string {
	name := util.SanitizeFilename(title)
	if name == "" {
		name = "episode"
	}
	return filepath.Join(dir, name+ext)
}

// isHLS reports whether media points at an HLS playlist.
func isHLS(media string) bool {
	return strings.EqualFold(mediaExt(media, ""), ".m3u8")
}

// mediaExt is the extension of the URL path, or def when there is none.
func mediaExt(media, def string) string {
	p := media
	if u, err := url.Parse(media); err == nil {
		p = u.Path
	}

	ext := path.Ext(p)
	if ext == "" || len(ext) > 6 {
		return def
	}
	return strings.ToLower(ext)
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}

func runError(name string, err error, output string) error {
	if output = tail(output); output != "" {
		return fmt.Errorf("%s: %w: %s", name, err, output)
	}
	return fmt.Errorf("%s: %w", name, err)
}
