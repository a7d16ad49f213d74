package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ruvdl/ruvdl/internal/probe"
	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Stage is one discovery heuristic. It returns None when it found nothing,
// which lets the next stage run.
type Stage = probe.Probe[*Page, []*source.Candidate]

// Discoverer turns a series page into episode candidates.
//
// Stages run in order and discovery stops at the first stage that finds
// anything. The default chain ends with a stage that always succeeds.
type Discoverer struct {
	Stages []Stage
}

// NewDiscoverer builds the default chain for profile:
// episode containers, series id links, navigation links, single page.
func NewDiscoverer(profile *Profile) (*Discoverer, error) {
	r, err := profile.compile()
	if err != nil {
		return nil, err
	}

	return &Discoverer{
		Stages: []Stage{
			r.containerLinks,
			r.seriesIDLinks,
			r.navLinks,
			r.singlePage,
		},
	}, nil
}

// Discover runs the chain and returns unique candidates in first-seen order.
func (d *Discoverer) Discover(page *Page) []*source.Candidate {
	found := probe.First(page, d.Stages...).OrEmpty()
	return Dedupe(found)
}

// Dedupe drops candidates whose URL was already seen, keeping the first.
func Dedupe(candidates []*source.Candidate) []*source.Candidate {
	return lo.UniqBy(candidates, func(c *source.Candidate) string {
		return c.URL
	})
}

func (r *rules) containerLinks(page *Page) mo.Option[[]*source.Candidate] {
	containers := withClass(page.Doc.Find("div, section, ul"), r.container)
	return probe.NonEmpty(r.playLinks(containers))
}

func (r *rules) navLinks(page *Page) mo.Option[[]*source.Candidate] {
	containers := withClass(page.Doc.Find("nav, div"), r.nav)
	return probe.NonEmpty(r.playLinks(containers))
}

// playLinks collects, container by container, the titled anchors pointing at a play path.
// Nested containers are visited once each, so a link may be collected twice; Dedupe handles that.
func (r *rules) playLinks(containers *goquery.Selection) []*source.Candidate {
	var found []*source.Candidate

	containers.Each(func(_ int, container *goquery.Selection) {
		container.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href := a.AttrOr("href", "")
			if !strings.Contains(href, r.PlaySegment) {
				return
			}
			if c, ok := r.candidate(href, text(a)).Get(); ok {
				found = append(found, c)
			}
		})
	})

	return found
}

func (r *rules) seriesIDLinks(page *Page) mo.Option[[]*source.Candidate] {
	id := seriesID(page.URL)
	if id == "" {
		return mo.None[[]*source.Candidate]()
	}

	var found []*source.Candidate
	page.Doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if !strings.Contains(href, id) {
			return
		}
		if c, ok := r.candidate(href, text(a)).Get(); ok {
			found = append(found, c)
		}
	})

	return probe.NonEmpty(found)
}

// singlePage treats the series page as the only episode. It always succeeds.
func (r *rules) singlePage(page *Page) mo.Option[[]*source.Candidate] {
	title := probe.NonBlank(text(page.Doc.Find("h1, h2, title").First())).OrElse(r.FallbackTitle)
	return mo.Some([]*source.Candidate{{URL: page.URL, Title: title}})
}

func (r *rules) candidate(href, title string) mo.Option[*source.Candidate] {
	if title == "" || href == "" {
		return mo.None[*source.Candidate]()
	}

	abs, ok := r.resolve(href).Get()
	if !ok {
		return mo.None[*source.Candidate]()
	}
	return mo.Some(&source.Candidate{URL: abs, Title: title})
}

// seriesID is the last non-empty path segment of the series URL,
// e.g. "b85s4f" for /sjonvarp/spila/sammi-brunavordur-x/37768/b85s4f.
func seriesID(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}
