// Package history remembers which episodes were already downloaded, keyed by episode page URL.
package history

import (
	"github.com/metafates/gache"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/where"
	"github.com/samber/mo"
)

var cacher = gache.New[map[string]*SavedEpisode](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved episode.
func Get() (map[string]*SavedEpisode, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedEpisode), nil
	}
	return cached, nil
}

// Save records a download, replacing any earlier record for the same episode.
func Save(episode *SavedEpisode) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	saved[episode.encode()] = episode
	return cacher.Set(saved)
}

// Lookup returns the record for an episode page URL, if the file it points to still exists.
// Records of deleted files are forgotten.
func Lookup(url string) mo.Option[*SavedEpisode] {
	saved, err := Get()
	if err != nil {
		return mo.None[*SavedEpisode]()
	}

	episode, ok := saved[url]
	if !ok {
		return mo.None[*SavedEpisode]()
	}

	if exists, err := filesystem.API().Exists(episode.Path); err != nil || !exists {
		_ = Remove(episode)
		return mo.None[*SavedEpisode]()
	}
	return mo.Some(episode)
}

// Remove deletes the record of an episode.
func Remove(episode *SavedEpisode) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, episode.encode())
	return cacher.Set(saved)
}
