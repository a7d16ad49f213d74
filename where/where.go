// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/ruvdl/ruvdl/constant"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "RUVDL_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory.
// XDG_CONFIG_HOME (or the platform equivalent) is used unless RUVDL_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Pages resolves the directory holding cached series and episode pages.
func Pages() string {
	return ensureDir(filepath.Join(Cache(), "pages"))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Sites resolves the directory containing custom site profiles.
func Sites() string {
	return ensureDir(filepath.Join(Config(), "sites"))
}

// History resolves the download history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the file of remembered series URLs.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Locks resolves the directory holding per-series run locks.
func Locks() string {
	return ensureDir(filepath.Join(Temp(), "locks"))
}

// Temp resolves a volatile directory for transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
