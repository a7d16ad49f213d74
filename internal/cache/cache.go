// Package cache stores JSON documents on disk with a time-to-live.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/where"
)

// Store is a directory of JSON entries that expire after TTL.
type Store struct {
	Dir string
	TTL time.Duration
}

// Pages returns the store used for fetched pages.
func Pages(ttl time.Duration) *Store {
	return &Store{Dir: where.Pages(), TTL: ttl}
}

// Key derives a deterministic entry name from parts, e.g. a page URL.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Get decodes the entry into target. It reports false for missing, expired or corrupt entries.
func (s *Store) Get(key string, target any) bool {
	path := filepath.Join(s.Dir, key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > s.TTL {
		return false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}

	return json.Unmarshal(data, target) == nil
}

// Set encodes value and replaces the entry atomically.
func (s *Store) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return filesystem.WriteAtomic(filepath.Join(s.Dir, key), data)
}

// CollectGarbage removes expired entries.
func (s *Store) CollectGarbage() {
	fs := filesystem.API()
	_ = fs.Walk(s.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > s.TTL {
			_ = fs.Remove(path)
		}
		return nil
	})
}
