package series

import (
	"path/filepath"
	"strings"

	"github.com/ruvdl/ruvdl/downloader"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/history"
	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Extensions of files written next to an episode that are not the episode itself.
var notEpisodeExts = []string{"", ".part", ".ytdl", ".temp", ".description", ".json", ".nfo"}

// existing finds a previous download of candidate: the path saved in the history,
// or a file in dir named after the episode with any media extension.
// The raw stream fallback keeps the extension of the media URL, so .mkv is not assumed.
func existing(dir string, candidate *source.Candidate) mo.Option[string] {
	if saved, ok := history.Lookup(candidate.URL).Get(); ok {
		return mo.Some(saved.Path)
	}

	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return mo.None[string]()
	}

	stem := filepath.Base(downloader.OutputPath(dir, candidate.Title, ""))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := filepath.Ext(name)
		if strings.TrimSuffix(name, ext) == stem && !lo.Contains(notEpisodeExts, strings.ToLower(ext)) {
			return mo.Some(filepath.Join(dir, name))
		}
	}
	return mo.None[string]()
}
