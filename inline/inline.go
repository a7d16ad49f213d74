// Package inline implements the non-interactive listing of a series:
// episode URLs as plain lines, or a JSON document for scripts.
package inline

import (
	"context"
	"fmt"
	"os"

	"github.com/ruvdl/ruvdl/log"
	"github.com/ruvdl/ruvdl/network"
	"github.com/ruvdl/ruvdl/source"
	"github.com/samber/lo"
)

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	series, err := options.Source.Series(ctx, options.URL)
	if err != nil {
		return err
	}

	numbered := lo.Map(series.Episodes, func(c *source.Candidate, i int) *Episode {
		return &Episode{Number: i + 1, Title: c.Title, URL: c.URL}
	})
	byURL := lo.KeyBy(numbered, func(e *Episode) string { return e.URL })

	candidates := series.Episodes
	if filter, ok := options.EpisodesFilter.Get(); ok {
		if candidates, err = filter(candidates); err != nil {
			return err
		}
	}

	episodes := lo.Map(candidates, func(c *source.Candidate, _ int) *Episode {
		return byURL[c.URL]
	})

	if options.Metadata {
		sleep := options.Sleep
		if sleep == nil {
			sleep = network.Sleep
		}

		for i, c := range candidates {
			if i > 0 && options.Delay > 0 {
				if err := sleep(ctx, options.Delay); err != nil {
					return err
				}
			}

			meta, err := options.Source.Episode(ctx, c)
			if err != nil {
				log.Warnf("extract %s: %s", c.URL, err)
				episodes[i].Error = err.Error()
				continue
			}
			episodes[i].Metadata = meta
		}
	}

	if options.Json {
		return writeJson(options, &Output{
			Source:   options.Source.ID(),
			URL:      series.URL,
			Title:    series.Title,
			Episodes: episodes,
		})
	}

	for _, ep := range episodes {
		line := ep.URL
		if ep.Metadata != nil {
			if media, ok := ep.Metadata.MediaURL.Get(); ok {
				line += "\t" + media
			}
		}
		if _, err := fmt.Fprintln(options.Out, line); err != nil {
			return err
		}
	}

	return nil
}

func writeJson(options *Options, output *Output) error {
	data, err := asJson(output)
	if err != nil {
		return err
	}
	_, err = options.Out.Write(data)
	return err
}
