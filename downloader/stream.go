package downloader

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/log"
	"github.com/sirupsen/logrus"
)

// Streamer copies a remote resource into w. *network.Client satisfies it.
type Streamer interface {
	Stream(ctx context.Context, url string, w io.Writer) (int64, error)
}

// Stream saves the media URL as is.
type Stream struct {
	Client Streamer
}

func (s *Stream) Accepts(req *Request) bool {
	return req.MediaURL.IsPresent()
}

func (s *Stream) Download(ctx context.Context, req *Request) (*Result, error) {
	media, ok := req.MediaURL.Get()
	if !ok {
		return nil, fmt.Errorf("%s: no media url", req.PageURL)
	}

	fs := filesystem.API()
	if err := fs.MkdirAll(req.Dir, os.ModePerm); err != nil {
		return nil, err
	}

	path := OutputPath(req.Dir, req.Title, mediaExt(media, ".mp4"))
	part := path + ".part"

	file, err := fs.Create(part)
	if err != nil {
		return nil, err
	}

	n, err := s.Client.Stream(ctx, media, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = fs.Remove(part)
		return nil, err
	}

	if err := fs.Rename(part, path); err != nil {
		return nil, err
	}

	log.Fields(logrus.Fields{"episode": req.PageURL, "size": humanize.Bytes(uint64(n))}).Infof("streamed %s", path)
	return &Result{Path: path, Method: MethodStream, Size: n}, nil
}
