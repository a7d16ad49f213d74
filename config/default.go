// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/ruvdl/ruvdl/color"
	"github.com/ruvdl/ruvdl/constant"
	"github.com/ruvdl/ruvdl/key"
	"github.com/ruvdl/ruvdl/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds every known configuration field keyed by its dotted name.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.SiteDefault, "ruv", "Site profile used when no profile matches the series URL host.\nType \"ruvdl sites list\" to show available profiles")
	register(key.SiteFallbackTitle, constant.FallbackTitle, "Episode title used when a page has no heading at all")

	register(key.HTTPUserAgent, constant.UserAgent, "User-Agent header sent with every request")
	register(key.HTTPAcceptLanguage, constant.AcceptLanguage, "Accept-Language header sent with every request.\nThe site varies markup by locale")
	register(key.HTTPTimeout, 60, "Request timeout in seconds")
	register(key.HTTPRetries, 3, "How many times a request is retried on 5xx or transport errors")
	register(key.HTTPFingerprint, false, "Use a Chrome TLS fingerprint for page requests")

	register(key.CachePages, false, "Cache fetched pages on disk")
	register(key.CacheTTL, 24, "Page cache lifetime in hours")

	register(key.DownloadEnabled, true, "Download episodes. When disabled only metadata is collected")
	register(key.DownloadLimit, 0, "Stop after this many episodes. 0 means no limit")
	register(key.DownloadOutputDir, "downloads", "Base directory. Each series gets a subdirectory named after its title")
	register(key.DownloadDelay, 3, "Pause between episodes in seconds")
	register(key.DownloadSkipExisting, true, "Skip episodes already downloaded by a previous run")

	register(key.DownloaderPath, "yt-dlp", "External downloader executable")
	register(key.DownloaderArgs, defaultDownloaderArgs, "Arguments passed to the external downloader before the episode URL")
	register(key.DownloaderFallback, true, "Fetch the located media URL directly when the external downloader fails")
	register(key.DownloaderFFmpeg, true, "Remux HLS playlists with ffmpeg when falling back")
	register(key.DownloaderKeepSidecars, true, "Keep .description and .info.json files written by the downloader")

	register(key.ManifestFormats, []string{"json", "nfo"}, "Manifest formats written after a run.\nAvailable options are: json, nfo")

	register(key.BatchParallel, 0, "Maximum concurrent series in batch mode. 0 runs all at once")

	register(key.HistorySave, true, "Remember downloaded episodes")
	register(key.QuerySuggestions, true, "Suggest previously used series URLs in shell completion")

	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var defaultDownloaderArgs = []string{
	"--format", "best",
	"--merge-output-format", "mkv",
	"--write-description",
	"--write-info-json",
	"--no-check-certificates",
	"--geo-bypass",
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
