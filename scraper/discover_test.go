package scraper

import (
	"testing"

	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

const seriesURL = "https://www.ruv.is/sjonvarp/spila/sammi-brunavordur-x/37768/b85s4f"

func mustPage(url, html string) *Page {
	return lo.Must(ParseString(url, html))
}

func mustDiscoverer() *Discoverer {
	return lo.Must(NewDiscoverer(Ruv()))
}

func urls(candidates []*source.Candidate) []string {
	return lo.Map(candidates, func(c *source.Candidate, _ int) string { return c.URL })
}

func titles(candidates []*source.Candidate) []string {
	return lo.Map(candidates, func(c *source.Candidate, _ int) string { return c.Title })
}

// counting wraps every stage and records which ones ran.
func counting(d *Discoverer) *[]int {
	var ran []int
	for i, stage := range d.Stages {
		d.Stages[i] = func(page *Page) mo.Option[[]*source.Candidate] {
			ran = append(ran, i+1)
			return stage(page)
		}
	}
	return &ran
}

func TestDiscoverContainers(t *testing.T) {
	Convey("Given an episode-list container with two play links", t, func() {
		page := mustPage(seriesURL, `
			<html><body>
			<h1>Sammi brunavörður X</h1>
			<div class="episode-list">
				<a href="/sjonvarp/spila/sammi-brunavordur-x/37768/b85s4g">Spýtubjörn</a>
				<a href="/sjonvarp/spila/sammi-brunavordur-x/37768/b85s4h">Lestin utan úr geimnum</a>
				<a href="/um-ruv">Um RÚV</a>
			</div>
			</body></html>`)

		d := mustDiscoverer()
		ran := counting(d)
		got := d.Discover(page)

		Convey("Exactly those two should be returned in document order", func() {
			So(urls(got), ShouldResemble, []string{
				"https://www.ruv.is/sjonvarp/spila/sammi-brunavordur-x/37768/b85s4g",
				"https://www.ruv.is/sjonvarp/spila/sammi-brunavordur-x/37768/b85s4h",
			})
			So(titles(got), ShouldResemble, []string{"Spýtubjörn", "Lestin utan úr geimnum"})
		})

		Convey("Later stages should never run", func() {
			So(*ran, ShouldResemble, []int{1})
		})
	})

	Convey("Given nested containers and repeated links", t, func() {
		page := mustPage(seriesURL, `
			<section class="video-grid">
				<ul class="list">
					<li><a href="/sjonvarp/spila/x/1/a">  Ósættið  </a></li>
					<li><a href="/sjonvarp/spila/x/1/b"></a></li>
					<li><a href="https://www.ruv.is/sjonvarp/spila/x/1/c">Hundafár</a></li>
				</ul>
				<a href="/sjonvarp/spila/x/1/a">Ósættið again</a>
			</section>`)

		got := mustDiscoverer().Discover(page)

		Convey("URLs should be unique and keep first-seen order and title", func() {
			So(urls(got), ShouldResemble, []string{
				"https://www.ruv.is/sjonvarp/spila/x/1/a",
				"https://www.ruv.is/sjonvarp/spila/x/1/c",
			})
			So(got[0].Title, ShouldEqual, "Ósættið")
		})

		Convey("Anchors with empty text should be skipped", func() {
			So(urls(got), ShouldNotContain, "https://www.ruv.is/sjonvarp/spila/x/1/b")
		})
	})
}

func TestDiscoverSeriesID(t *testing.T) {
	Convey("Given no containers but links carrying the series id", t, func() {
		page := mustPage(seriesURL, `
			<body>
				<p><a href="/sjonvarp/thattur/b85s4f/1">Refur á flótta</a></p>
				<p><a href="/sjonvarp/thattur/b85s4f/2">Njósnaleikir</a></p>
				<p><a href="/sjonvarp/thattur/zzz/3">Other show</a></p>
				<p><a href="/sjonvarp/thattur/b85s4f/4"> </a></p>
			</body>`)

		d := mustDiscoverer()
		ran := counting(d)
		got := d.Discover(page)

		Convey("Stage two should collect titled links containing the id", func() {
			So(titles(got), ShouldResemble, []string{"Refur á flótta", "Njósnaleikir"})
			So(*ran, ShouldResemble, []int{1, 2})
		})
	})

	Convey("seriesID should take the last non-empty path segment", t, func() {
		So(seriesID(seriesURL), ShouldEqual, "b85s4f")
		So(seriesID(seriesURL+"/"), ShouldEqual, "b85s4f")
		So(seriesID(seriesURL+"?autoplay=1"), ShouldEqual, "b85s4f")
		So(seriesID("https://www.ruv.is/"), ShouldEqual, "")
	})
}

func TestDiscoverNavigation(t *testing.T) {
	Convey("Given play links only inside a pagination nav", t, func() {
		page := mustPage("https://www.ruv.is/sjonvarp/thaettir/", `
			<nav class="pagination">
				<a href="/sjonvarp/spila/bubbi-byggir/37750/b80cbg">Moki álfur</a>
				<a href="/sjonvarp/spila/bubbi-byggir/37750/b80cbh">Ofur-Skófli</a>
			</nav>
			<a href="/annad">Annað</a>`)

		d := mustDiscoverer()
		ran := counting(d)
		got := d.Discover(page)

		So(titles(got), ShouldResemble, []string{"Moki álfur", "Ofur-Skófli"})
		So(*ran, ShouldResemble, []int{1, 2, 3})
	})
}

func TestDiscoverSinglePage(t *testing.T) {
	Convey("Given no containers, no id links and no navigation", t, func() {
		Convey("The heading should title the single synthetic candidate", func() {
			page := mustPage(seriesURL, `<body><h2>Sammi brunavörður X</h2><p>Enginn þáttur</p></body>`)
			got := mustDiscoverer().Discover(page)

			So(got, ShouldHaveLength, 1)
			So(got[0].URL, ShouldEqual, seriesURL)
			So(got[0].Title, ShouldEqual, "Sammi brunavörður X")
		})

		Convey("The fallback title should be used without any heading", func() {
			page := mustPage(seriesURL, `<body><p>Ekkert</p></body>`)
			got := mustDiscoverer().Discover(page)

			So(got, ShouldHaveLength, 1)
			So(got[0].URL, ShouldEqual, seriesURL)
			So(got[0].Title, ShouldEqual, Ruv().FallbackTitle)
		})

		Convey("A configured fallback title should be honoured", func() {
			profile := Ruv()
			profile.FallbackTitle = "Sammi brunavörður X"
			page := mustPage(seriesURL, `<body></body>`)

			got := lo.Must(NewDiscoverer(profile)).Discover(page)
			So(got[0].Title, ShouldEqual, "Sammi brunavörður X")
		})
	})
}

func TestDedupe(t *testing.T) {
	Convey("Dedupe should keep the first candidate for each URL", t, func() {
		got := Dedupe([]*source.Candidate{
			{URL: "a", Title: "1"},
			{URL: "b", Title: "2"},
			{URL: "a", Title: "3"},
		})
		So(urls(got), ShouldResemble, []string{"a", "b"})
		So(titles(got), ShouldResemble, []string{"1", "2"})
	})
}
