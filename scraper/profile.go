// Package scraper discovers episode links on a series page and extracts
// episode metadata, using ordered fallback heuristics over the HTML.
package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ruvdl/ruvdl/constant"
)

// Profile holds everything site specific the heuristics need.
// Custom profiles are decoded from TOML on top of Ruv().
type Profile struct {
	ID    string   `toml:"id"`
	Name  string   `toml:"name"`
	Hosts []string `toml:"hosts"`

	// BaseOrigin is what relative links are resolved against.
	BaseOrigin string `toml:"base_origin"`
	// PlaySegment marks a link as an episode ("play") link.
	PlaySegment string `toml:"play_segment"`
	// TitleSuffix is the site name appended to document titles.
	TitleSuffix string `toml:"title_suffix"`

	// FallbackTitle names the synthetic single-page candidate when the page has no heading.
	FallbackTitle string `toml:"fallback_title"`
	// UnknownTitle is the extractor's last resort title.
	UnknownTitle string `toml:"unknown_title"`

	ContainerClass string `toml:"container_class"`
	NavClass       string `toml:"nav_class"`
	HeadingClass   string `toml:"heading_class"`

	// MediaPatterns are tried in order against inline scripts.
	// A pattern with a capture group yields the group, otherwise the whole match.
	MediaPatterns []string `toml:"media_patterns"`
	// PlayerHints are substrings that mark an iframe as a video player.
	PlayerHints []string `toml:"player_hints"`
}

// Ruv returns the built-in profile for www.ruv.is.
func Ruv() *Profile {
	return &Profile{
		ID:             "ruv",
		Name:           "RÚV",
		Hosts:          []string{"www.ruv.is", "ruv.is"},
		BaseOrigin:     constant.RuvBaseOrigin,
		PlaySegment:    constant.RuvPlaySegment,
		TitleSuffix:    constant.RuvTitleSuffix,
		FallbackTitle:  constant.FallbackTitle,
		UnknownTitle:   constant.UnknownTitle,
		ContainerClass: `episode|video|list|item`,
		NavClass:       `nav|pagination|episode`,
		HeadingClass:   `title|heading`,
		MediaPatterns: []string{
			`"videoUrl"\s*:\s*"([^"]+)"`,
			`"src"\s*:\s*"([^"]+\.mp4[^"]*)"`,
			`"url"\s*:\s*"([^"]+\.mp4[^"]*)"`,
			`"streamUrl"\s*:\s*"([^"]+)"`,
			`"mediaUrl"\s*:\s*"([^"]+)"`,
			`https?://[^\s"<>]+\.mp4[^\s"<>]*`,
			`https?://[^\s"<>]+\.m3u8[^\s"<>]*`,
			`https?://` + regexp.QuoteMeta(constant.RuvCDNHost) + `/[^\s"<>]+`,
		},
		PlayerHints: []string{"player", "video"},
	}
}

// Clone returns a deep copy, so overrides never leak into the built-in profile.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Hosts = append([]string(nil), p.Hosts...)
	c.MediaPatterns = append([]string(nil), p.MediaPatterns...)
	c.PlayerHints = append([]string(nil), p.PlayerHints...)
	return &c
}

// Matches reports whether rawURL belongs to one of the profile's hosts.
func (p *Profile) Matches(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range p.Hosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

// rules is a Profile with its patterns compiled.
type rules struct {
	*Profile

	base      *url.URL
	container *regexp.Regexp
	nav       *regexp.Regexp
	heading   *regexp.Regexp
	media     []*regexp.Regexp
}

func (p *Profile) compile() (*rules, error) {
	base, err := url.Parse(p.BaseOrigin)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("profile %s: invalid base origin %q", p.ID, p.BaseOrigin)
	}

	r := &rules{Profile: p, base: base}

	for _, c := range []struct {
		dst     **regexp.Regexp
		name    string
		pattern string
	}{
		{&r.container, "container_class", p.ContainerClass},
		{&r.nav, "nav_class", p.NavClass},
		{&r.heading, "heading_class", p.HeadingClass},
	} {
		re, err := regexp.Compile(c.pattern)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %s: %w", p.ID, c.name, err)
		}
		*c.dst = re
	}

	for i, pattern := range p.MediaPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("profile %s: media pattern %d: %w", p.ID, i, err)
		}
		r.media = append(r.media, re)
	}

	return r, nil
}
