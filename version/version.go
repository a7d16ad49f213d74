package version

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/network"
	"github.com/ruvdl/ruvdl/where"
)

// ReleasesURL is the latest yt-dlp release on GitHub.
const ReleasesURL = "https://api.github.com/repos/yt-dlp/yt-dlp/releases/latest"

var commandContext = exec.CommandContext

var latestCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "ytdlp-version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Getter fetches a URL.
type Getter interface {
	Get(ctx context.Context, url string) (*network.Response, error)
}

// Installed runs "<binary> --version" and returns the first line of its output.
func Installed(ctx context.Context, binary string) (string, error) {
	out, err := commandContext(ctx, binary, "--version").Output()
	if err != nil {
		return "", err
	}

	line, _ := bufio.NewReader(bytes.NewReader(out)).ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New(binary + " printed no version")
	}
	return line, nil
}

// Latest returns the tag of the newest yt-dlp release.
// The answer is cached for two days to stay clear of the API rate limit.
func Latest(ctx context.Context, getter Getter) (string, error) {
	cached, expired, err := latestCacher.Get()
	if err == nil && !expired && cached != "" {
		return cached, nil
	}

	resp, err := getter.Get(ctx, ReleasesURL)
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(resp.Body, &release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	_ = latestCacher.Set(latest)
	return latest, nil
}

// Status pairs the installed version with the newest release.
type Status struct {
	Installed string
	Latest    string
	Outdated  bool
}

// Check compares the installed binary against the newest release.
func Check(ctx context.Context, binary string, getter Getter) (*Status, error) {
	installed, err := Installed(ctx, binary)
	if err != nil {
		return nil, err
	}

	latest, err := Latest(ctx, getter)
	if err != nil {
		return nil, err
	}

	cmp, err := Compare(installed, latest)
	if err != nil {
		return nil, err
	}

	return &Status{Installed: installed, Latest: latest, Outdated: cmp < 0}, nil
}
