package downloader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/log"
	ffmpeg_go "github.com/u2takey/ffmpeg-go"
)

// HLS remuxes an HLS playlist into a Matroska file without re-encoding.
type HLS struct {
	// Binary is the ffmpeg executable.
	Binary    string
	UserAgent string
}

func (h *HLS) Accepts(req *Request) bool {
	media, ok := req.MediaURL.Get()
	return ok && isHLS(media)
}

// Command returns the ffmpeg arguments for req.
func (h *HLS) Command(req *Request) []string {
	input := ffmpeg_go.KwArgs{}
	if h.UserAgent != "" {
		input["user_agent"] = h.UserAgent
	}

	return ffmpeg_go.
		Input(req.MediaURL.OrEmpty(), input).
		Output(OutputPath(req.Dir, req.Title, ".mkv"), ffmpeg_go.KwArgs{"c": "copy"}).
		OverWriteOutput().
		GetArgs()
}

func (h *HLS) Download(ctx context.Context, req *Request) (*Result, error) {
	if !h.Accepts(req) {
		return nil, fmt.Errorf("%s: not an HLS playlist", req.PageURL)
	}

	if err := filesystem.API().MkdirAll(req.Dir, os.ModePerm); err != nil {
		return nil, err
	}

	args := h.Command(req)
	log.Debugf("running %s %s", h.Binary, strings.Join(args, " "))

	cmd := commandContext(ctx, h.Binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, runError(h.Binary, err, string(output))
	}

	path := OutputPath(req.Dir, req.Title, ".mkv")
	result := &Result{Path: path, Method: MethodHLS}
	if info, err := filesystem.API().Stat(path); err == nil {
		result.Size = info.Size()
	}
	return result, nil
}
