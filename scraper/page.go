package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/mo"
)

// Page is a parsed HTML document together with the URL it was fetched from.
type Page struct {
	URL string
	Doc *goquery.Document
}

// ParsePage parses r as HTML.
func ParsePage(url string, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return &Page{URL: url, Doc: doc}, nil
}

// ParseString parses an HTML string. Mostly useful in tests.
func ParseString(url, html string) (*Page, error) {
	return ParsePage(url, strings.NewReader(html))
}

// resolve makes href absolute against the base origin.
func (r *rules) resolve(href string) mo.Option[string] {
	ref, err := r.base.Parse(strings.TrimSpace(href))
	if err != nil {
		return mo.None[string]()
	}
	return mo.Some(ref.String())
}

// withClass keeps the elements whose class attribute matches re.
// Elements without a class attribute never match.
func withClass(sel *goquery.Selection, re *regexp.Regexp) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		return ok && re.MatchString(class)
	})
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
