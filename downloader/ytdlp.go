package downloader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/log"
	"github.com/sirupsen/logrus"
)

// sidecars are the extra files yt-dlp writes next to the video.
var sidecars = []string{".description", ".info.json"}

// YtDlp runs the external downloader against the episode page.
type YtDlp struct {
	Path string
	// Args go between the output option and the page URL.
	Args []string
	// KeepSidecars leaves .description and .info.json files in place.
	KeepSidecars bool
}

// Command returns the arguments yt-dlp is started with.
func (y *YtDlp) Command(req *Request) []string {
	output := OutputPath(req.Dir, req.Title, ".mkv")

	args := []string{"--output", escapeTemplate(output)}
	args = append(args, y.Args...)
	return append(args, req.PageURL)
}

func (y *YtDlp) Download(ctx context.Context, req *Request) (*Result, error) {
	if err := filesystem.API().MkdirAll(req.Dir, os.ModePerm); err != nil {
		return nil, err
	}

	args := y.Command(req)
	log.Fields(logrus.Fields{"episode": req.PageURL}).Debugf("running %s %s", y.Path, strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := commandContext(ctx, y.Path, args...) //nolint:gosec
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, runError(y.Path, err, stderr.String())
	}

	output := OutputPath(req.Dir, req.Title, ".mkv")
	if !y.KeepSidecars {
		removeSidecars(output)
	}

	result := &Result{Path: output, Method: MethodYtDlp}
	if info, err := filesystem.API().Stat(output); err == nil {
		result.Size = info.Size()
	}
	return result, nil
}

func removeSidecars(video string) {
	stem := strings.TrimSuffix(video, ".mkv")
	for _, ext := range sidecars {
		err := filesystem.API().Remove(stem + ext)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("remove %s: %s", stem+ext, err)
		}
	}
}

// escapeTemplate keeps yt-dlp from reading % in a literal path as a template field.
func escapeTemplate(path string) string {
	return strings.ReplaceAll(path, "%", "%%")
}
