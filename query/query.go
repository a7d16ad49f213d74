// Package query remembers the series URLs that were scraped and suggests them back.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type queryRecord struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
	// Title is the series title seen on the last run, if any.
	Title string `json:"title"`
}

var cacher = gache.New[map[string]*queryRecord](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var suggestionCache = make(map[string][]*queryRecord)

// Remember records a series URL or bumps its rank by weight.
func Remember(q, title string, weight int) error {
	q = sanitize(q)
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*queryRecord)
	}

	if record, ok := cached[q]; ok {
		record.Rank += weight
		if title != "" {
			record.Title = title
		}
	} else {
		cached[q] = &queryRecord{Rank: weight, Query: q, Title: title}
	}

	suggestionCache = make(map[string][]*queryRecord)
	return cacher.Set(cached)
}

// SuggestMany returns remembered URLs whose URL or title fuzzy matches q, best ranked first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.QuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)
	var records []*queryRecord

	if prev, ok := suggestionCache[q]; ok {
		records = prev
	} else {
		cached, expired, err := cacher.Get()
		if err != nil || expired || cached == nil {
			return []string{}
		}

		for _, record := range cached {
			if fuzzy.MatchFold(q, record.Query) || fuzzy.MatchFold(q, record.Title) {
				records = append(records, record)
			}
		}

		slices.SortFunc(records, func(a, b *queryRecord) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}
			return strings.Compare(a.Query, b.Query)
		})

		suggestionCache[q] = records
	}

	return lo.Map(records, func(r *queryRecord, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimRight(strings.TrimSpace(q), "/")
}
