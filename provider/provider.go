// Package provider manages built-in and custom site profiles.
package provider

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/ruvdl/ruvdl/constant"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/log"
	"github.com/ruvdl/ruvdl/scraper"
	"github.com/ruvdl/ruvdl/source"
	"github.com/ruvdl/ruvdl/util"
	"github.com/ruvdl/ruvdl/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Provider is a named site profile.
type Provider struct {
	ID       string
	Name     string
	IsCustom bool
	// Path is the profile file of a custom provider.
	Path    string
	profile func() (*scraper.Profile, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Profile returns a fresh copy of the provider's profile with configuration overrides applied.
func (p *Provider) Profile() (*scraper.Profile, error) {
	profile, err := p.profile()
	if err != nil {
		return nil, err
	}

	if title := viper.GetString(key.SiteFallbackTitle); title != "" && profile.FallbackTitle == constant.FallbackTitle {
		profile.FallbackTitle = title
	}
	return profile, nil
}

// CreateSource builds the scraper for this provider.
func (p *Provider) CreateSource(fetcher scraper.Fetcher) (source.Source, error) {
	profile, err := p.Profile()
	if err != nil {
		return nil, err
	}
	return scraper.New(profile, fetcher)
}

// Builtins returns the providers compiled into the binary.
func Builtins() []*Provider {
	ruv := scraper.Ruv()
	return []*Provider{
		{
			ID:   ruv.ID,
			Name: ruv.Name,
			profile: func() (*scraper.Profile, error) {
				return scraper.Ruv(), nil
			},
		},
	}
}

// Customs returns the profiles found in the sites directory.
// Unreadable directories yield none.
func Customs() []*Provider {
	providers, err := CustomProviders()
	if err != nil {
		log.Warn(err)
	}
	return providers
}

// Get finds a provider by ID or name. Custom providers shadow built-in ones.
func Get(name string) (*Provider, bool) {
	return lo.Find(All(), func(p *Provider) bool {
		return p.ID == name || p.Name == name
	})
}

// All returns custom providers first, then built-in ones.
func All() []*Provider {
	return append(Customs(), Builtins()...)
}

// ForURL picks the provider whose hosts include the host of rawURL,
// falling back to the configured default site.
func ForURL(rawURL string) (*Provider, error) {
	for _, p := range All() {
		profile, err := p.profile()
		if err != nil {
			log.Warnf("site %s: %s", p.ID, err)
			continue
		}
		if profile.Matches(rawURL) {
			return p, nil
		}
	}

	def := viper.GetString(key.SiteDefault)
	if p, ok := Get(def); ok {
		return p, nil
	}
	return nil, fmt.Errorf("no site profile matches %s and default site %q does not exist", rawURL, def)
}

// CustomProviders lists the *.toml profiles in where.Sites().
func CustomProviders() ([]*Provider, error) {
	dir := where.Sites()
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var providers []*Provider
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".toml" {
			continue
		}

		path := filepath.Join(dir, f.Name())
		profile, err := LoadProfile(path)
		if err != nil {
			log.Warnf("skipping site profile %s: %s", path, err)
			continue
		}

		providers = append(providers, &Provider{
			ID:       profile.ID,
			Name:     profile.Name,
			IsCustom: true,
			Path:     path,
			profile: func() (*scraper.Profile, error) {
				return LoadProfile(path)
			},
		})
	}

	sort.Slice(providers, func(i, j int) bool {
		return providers[i].ID < providers[j].ID
	})
	return providers, nil
}

// LoadProfile decodes a profile file on top of the built-in RÚV profile,
// so a file only needs the fields it changes. Unknown fields are rejected.
func LoadProfile(path string) (*scraper.Profile, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	profile := scraper.Ruv().Clone()
	profile.ID = util.FileStem(path)
	profile.Name = profile.ID

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(profile); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if _, err := scraper.NewDiscoverer(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
