package downloader

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Chain tries Primary and, when it fails, the first fallback that accepts the request.
type Chain struct {
	Primary   Downloader
	Fallbacks []Fallback
}

func (c *Chain) Download(ctx context.Context, req *Request) (*Result, error) {
	result, err := c.Primary.Download(ctx, req)
	if err == nil {
		return result, nil
	}

	entry := log.Fields(logrus.Fields{"episode": req.PageURL})
	entry.Warnf("download failed: %s", err)

	if req.MediaURL.IsAbsent() {
		return nil, fmt.Errorf("%w: %w", ErrNoFallback, err)
	}

	for _, fallback := range c.Fallbacks {
		if !fallback.Accepts(req) {
			continue
		}

		entry.Infof("falling back to %s", req.MediaURL.OrEmpty())
		result, fallbackErr := fallback.Download(ctx, req)
		if fallbackErr != nil {
			return nil, fmt.Errorf("fallback: %w (after %w)", fallbackErr, err)
		}
		return result, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrNoFallback, err)
}

// FromConfig builds the downloader chain described by the configuration.
func FromConfig(client Streamer) Downloader {
	primary := &YtDlp{
		Path:         viper.GetString(key.DownloaderPath),
		Args:         viper.GetStringSlice(key.DownloaderArgs),
		KeepSidecars: viper.GetBool(key.DownloaderKeepSidecars),
	}

	if !viper.GetBool(key.DownloaderFallback) {
		return &Chain{Primary: primary}
	}

	var fallbacks []Fallback
	if viper.GetBool(key.DownloaderFFmpeg) {
		fallbacks = append(fallbacks, &HLS{Binary: "ffmpeg", UserAgent: viper.GetString(key.HTTPUserAgent)})
	}
	fallbacks = append(fallbacks, &Stream{Client: client})

	return &Chain{Primary: primary, Fallbacks: fallbacks}
}

var lookPath = exec.LookPath

// Binary is an external tool and where it was found.
type Binary struct {
	Name string
	Path string
}

func (b Binary) Found() bool {
	return b.Path != ""
}

// CheckBinaries looks each tool up on PATH.
func CheckBinaries(names ...string) []Binary {
	binaries := make([]Binary, 0, len(names))
	for _, name := range names {
		path, err := lookPath(name)
		if err != nil {
			path = ""
		}
		binaries = append(binaries, Binary{Name: name, Path: path})
	}
	return binaries
}
