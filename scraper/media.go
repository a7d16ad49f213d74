package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// FindMediaInScripts looks for a media URL inside inline script bodies.
//
// Scripts are visited in order and, for each script, patterns are tried in
// order. The first pattern that matches ends the search: its first capture
// group is returned if it has one, the whole match otherwise.
func FindMediaInScripts(scripts []string, patterns []*regexp.Regexp) mo.Option[string] {
	for _, script := range scripts {
		for _, re := range patterns {
			match := re.FindStringSubmatch(script)
			if match == nil {
				continue
			}

			if len(match) > 1 {
				return mo.Some(unescapeJSON(match[1]))
			}
			return mo.Some(unescapeJSON(match[0]))
		}
	}

	return mo.None[string]()
}

// unescapeJSON undoes JSON string escaping such as "https:\/\/" or "\u0026".
// "\/" is valid JSON but not a Go escape, so it is replaced before unquoting.
// Values that are still not valid string content keep only that replacement.
func unescapeJSON(s string) string {
	s = strings.ReplaceAll(s, `\/`, `/`)
	if !strings.Contains(s, `\`) {
		return s
	}

	unquoted, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return unquoted
}
