package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ruvdl/ruvdl/log"
	"github.com/ruvdl/ruvdl/network"
	"github.com/ruvdl/ruvdl/source"
	"github.com/sirupsen/logrus"
)

var (
	// ErrFetch wraps every page retrieval failure.
	ErrFetch = errors.New("fetch failed")
	// ErrNoSeriesTitle is returned when the series page has no usable title.
	ErrNoSeriesTitle = errors.New("series title not found")
)

// ExtractionFailure reports that one episode page could not be read.
// It only concerns that episode; callers should move on to the next one.
type ExtractionFailure struct {
	URL string
	Err error
}

func (e *ExtractionFailure) Error() string {
	return fmt.Sprintf("extract %s: %s", e.URL, e.Err)
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Err
}

var _ source.Source = (*Scraper)(nil)

// Fetcher retrieves a page. *network.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) (*network.Response, error)
}

// Scraper reads one site with the heuristics configured by its profile.
type Scraper struct {
	profile    *Profile
	fetcher    Fetcher
	discoverer *Discoverer
	extractor  *Extractor
}

// New builds a Scraper. The profile is copied.
func New(profile *Profile, fetcher Fetcher) (*Scraper, error) {
	profile = profile.Clone()

	discoverer, err := NewDiscoverer(profile)
	if err != nil {
		return nil, err
	}

	extractor, err := NewExtractor(profile)
	if err != nil {
		return nil, err
	}

	return &Scraper{
		profile:    profile,
		fetcher:    fetcher,
		discoverer: discoverer,
		extractor:  extractor,
	}, nil
}

func (s *Scraper) ID() string {
	return s.profile.ID
}

func (s *Scraper) Name() string {
	return s.profile.Name
}

func (s *Scraper) page(ctx context.Context, url string) (*Page, error) {
	resp, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return ParsePage(url, bytes.NewReader(resp.Body))
}

// Series reads the series page once, resolving its title and discovering its episodes.
func (s *Scraper) Series(ctx context.Context, url string) (*source.Series, error) {
	page, err := s.page(ctx, url)
	if err != nil {
		return nil, err
	}

	title := s.extractor.Title(page)
	if title == s.profile.UnknownTitle {
		return nil, fmt.Errorf("%w: %s", ErrNoSeriesTitle, url)
	}

	return &source.Series{
		Title:    title,
		URL:      url,
		Episodes: s.discoverer.Discover(page),
	}, nil
}

// Discover returns the episode candidates of a series page.
// A page that cannot be fetched yields no candidates; an empty result means
// "retry or treat the page as a single episode", not "the series has no episodes".
func (s *Scraper) Discover(ctx context.Context, url string) []*source.Candidate {
	page, err := s.page(ctx, url)
	if err != nil {
		log.Fields(logrus.Fields{"series": url}).Warn(err)
		return []*source.Candidate{}
	}
	return s.discoverer.Discover(page)
}

// Title resolves the title of any page with the extractor's title heuristics.
func (s *Scraper) Title(ctx context.Context, url string) (string, error) {
	page, err := s.page(ctx, url)
	if err != nil {
		return "", err
	}
	return s.extractor.Title(page), nil
}

// Episode fetches and extracts one episode page.
// Failures are returned as *ExtractionFailure.
func (s *Scraper) Episode(ctx context.Context, candidate *source.Candidate) (*source.Metadata, error) {
	page, err := s.page(ctx, candidate.URL)
	if err != nil {
		return nil, &ExtractionFailure{URL: candidate.URL, Err: err}
	}
	return s.extractor.Extract(page), nil
}
