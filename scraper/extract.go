package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ruvdl/ruvdl/internal/probe"
	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Lookup is one extraction heuristic over a page.
type Lookup = probe.Probe[*Page, string]

// Extractor reads episode metadata from an episode page.
type Extractor struct {
	// TitleLookups run in order; UnknownTitle is used when none finds a title.
	TitleLookups []Lookup
	// MediaLookups run in order; the media URL stays absent when none finds one.
	MediaLookups []Lookup

	unknownTitle string
}

// NewExtractor builds the default lookups for profile.
func NewExtractor(profile *Profile) (*Extractor, error) {
	r, err := profile.compile()
	if err != nil {
		return nil, err
	}

	return &Extractor{
		TitleLookups: []Lookup{
			r.headingTitle,
			r.documentTitle,
			r.classedHeadingTitle,
		},
		MediaLookups: []Lookup{
			r.scriptMedia,
			r.videoMedia,
			r.sourceMedia,
			r.iframeMedia,
		},
		unknownTitle: profile.UnknownTitle,
	}, nil
}

// Extract returns the metadata of page. It never fails; missing pieces stay empty.
func (e *Extractor) Extract(page *Page) *source.Metadata {
	return &source.Metadata{
		Title:       e.Title(page),
		URL:         page.URL,
		MediaURL:    e.MediaURL(page),
		Description: Description(page),
	}
}

// Title resolves the page title through TitleLookups.
func (e *Extractor) Title(page *Page) string {
	return probe.First(page, e.TitleLookups...).OrElse(e.unknownTitle)
}

// MediaURL resolves the playable media location through MediaLookups.
func (e *Extractor) MediaURL(page *Page) mo.Option[string] {
	return probe.First(page, e.MediaLookups...)
}

// Description is the content of the description meta tag, or empty.
func Description(page *Page) string {
	return page.Doc.Find(`meta[name="description"]`).First().AttrOr("content", "")
}

func (r *rules) headingTitle(page *Page) mo.Option[string] {
	return probe.NonBlank(text(page.Doc.Find("h1").First()))
}

func (r *rules) documentTitle(page *Page) mo.Option[string] {
	title := text(page.Doc.Find("title").First())
	if r.TitleSuffix != "" {
		title = strings.TrimSuffix(title, r.TitleSuffix)
	}
	return probe.NonBlank(title)
}

func (r *rules) classedHeadingTitle(page *Page) mo.Option[string] {
	return probe.NonBlank(text(withClass(page.Doc.Find("h2, h3"), r.heading).First()))
}

func (r *rules) scriptMedia(page *Page) mo.Option[string] {
	var scripts []string
	page.Doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if body := s.Text(); strings.TrimSpace(body) != "" {
			scripts = append(scripts, body)
		}
	})
	return FindMediaInScripts(scripts, r.media)
}

func (r *rules) videoMedia(page *Page) mo.Option[string] {
	return r.firstResolved(page.Doc.Find("video[src]"))
}

func (r *rules) sourceMedia(page *Page) mo.Option[string] {
	return r.firstResolved(page.Doc.Find("source[src]"))
}

// iframeMedia returns the src of the first iframe that looks like a player, as is.
func (r *rules) iframeMedia(page *Page) mo.Option[string] {
	found := mo.None[string]()

	page.Doc.Find("iframe[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := s.AttrOr("src", "")
		hinted := lo.ContainsBy(r.PlayerHints, func(hint string) bool {
			return strings.Contains(src, hint)
		})
		if src != "" && hinted {
			found = mo.Some(src)
			return false
		}
		return true
	})

	return found
}

// firstResolved returns the first non-empty src of sel resolved against the base origin.
func (r *rules) firstResolved(sel *goquery.Selection) mo.Option[string] {
	found := mo.None[string]()

	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return true
		}
		if abs, ok := r.resolve(src).Get(); ok {
			found = mo.Some(abs)
			return false
		}
		return true
	})

	return found
}
