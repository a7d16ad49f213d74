package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ruvdl/ruvdl/color"
	"github.com/ruvdl/ruvdl/config"
	"github.com/ruvdl/ruvdl/icon"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/manifest"
	"github.com/ruvdl/ruvdl/provider"
	"github.com/ruvdl/ruvdl/style"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func errUnknownKey(name string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(name),
		style.Fg(color.Yellow)(closest),
	)
}

// settingRules are checked by config set before a value is written.
// Keys without a rule only need to parse as the type of their default.
var settingRules = map[string]func(v any) error{
	key.SiteDefault: func(v any) error {
		if _, ok := provider.Get(v.(string)); !ok {
			return fmt.Errorf("site not found: %s", v)
		}
		return nil
	},
	key.ManifestFormats: func(v any) error {
		for _, format := range v.([]string) {
			if !lo.Contains(manifest.Formats(), format) {
				return fmt.Errorf("unknown manifest format %q, available: %s", format, strings.Join(manifest.Formats(), ", "))
			}
		}
		return nil
	},
	key.IconsVariant: oneOf(icon.AvailableVariants()),
	key.LogsLevel: func(v any) error {
		_, err := logrus.ParseLevel(v.(string))
		return err
	},
	key.DownloadDelay: atLeast(0),
	key.DownloadLimit: atLeast(0),
	key.BatchParallel: atLeast(0),
	key.HTTPRetries:   atLeast(0),
	key.CacheTTL:      atLeast(0),
	key.HTTPTimeout:   atLeast(1),
}

func atLeast(lower int) func(v any) error {
	return func(v any) error {
		if n := v.(int); n < lower {
			return fmt.Errorf("value must be at least %d, got %d", lower, n)
		}
		return nil
	}
}

func oneOf(options []string) func(v any) error {
	return func(v any) error {
		if !lo.Contains(options, v.(string)) {
			return fmt.Errorf("invalid value %q, available: %s", v, strings.Join(options, ", "))
		}
		return nil
	}
}

// parseSetting converts raw command-line values to the type of the key's default
// and runs the key's rule, if any.
func parseSetting(name string, raw []string) (any, error) {
	field, ok := config.Default[name]
	if !ok {
		return nil, errUnknownKey(name)
	}
	if len(raw) == 0 {
		return nil, errors.New("value is required")
	}

	var v any
	switch field.Value.(type) {
	case string:
		v = raw[0]
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		v = n
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
		v = b
	case []string:
		v = lo.Compact(lo.FlatMap(raw, func(item string, _ int) []string {
			return lo.Map(strings.Split(item, ","), func(s string, _ int) string {
				return strings.TrimSpace(s)
			})
		}))
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", name)
	}

	if rule, ok := settingRules[name]; ok {
		if err := rule(v); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return v, nil
}

// saveConfig writes the viper state, creating the file on first use.
func saveConfig() error {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}
