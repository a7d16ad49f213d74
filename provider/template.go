package provider

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/scraper"
	"github.com/ruvdl/ruvdl/util"
	"github.com/ruvdl/ruvdl/where"
)

// Template returns a profile file for a new site, prefilled with the RÚV defaults.
func Template(id, name string, hosts []string) ([]byte, error) {
	profile := scraper.Ruv().Clone()
	profile.ID = id
	profile.Name = name
	profile.Hosts = hosts
	return toml.Marshal(profile)
}

// Create writes a new profile file into the sites directory and returns its path.
// Existing files are never overwritten.
func Create(name string, hosts []string) (string, error) {
	id := util.SanitizeFilename(name)
	if id == "" {
		return "", errors.New("site name is empty")
	}

	path := filepath.Join(where.Sites(), id+".toml")
	if exists, _ := filesystem.API().Exists(path); exists {
		return "", fmt.Errorf("%s: %w", path, os.ErrExist)
	}

	data, err := Template(id, name, hosts)
	if err != nil {
		return "", err
	}

	return path, filesystem.WriteAtomic(path, data)
}
