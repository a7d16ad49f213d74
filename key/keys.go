// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Site selection and per-site overrides.
const (
	SiteDefault       = "site.default"
	SiteFallbackTitle = "site.fallback_title"
)

// HTTP client behaviour.
const (
	HTTPUserAgent      = "http.user_agent"
	HTTPAcceptLanguage = "http.accept_language"
	HTTPTimeout        = "http.timeout"
	HTTPRetries        = "http.retries"
	HTTPFingerprint    = "http.tls_fingerprint"
)

// Page cache.
const (
	CachePages = "cache.pages"
	CacheTTL   = "cache.ttl"
)

// Series run parameters.
const (
	DownloadEnabled      = "download.enabled"
	DownloadLimit        = "download.limit"
	DownloadOutputDir    = "download.output_dir"
	DownloadDelay        = "download.delay"
	DownloadSkipExisting = "download.skip_existing"
)

// External downloader.
const (
	DownloaderPath         = "downloader.path"
	DownloaderArgs         = "downloader.args"
	DownloaderFallback     = "downloader.fallback"
	DownloaderFFmpeg       = "downloader.ffmpeg"
	DownloaderKeepSidecars = "downloader.keep_sidecars"
)

// Manifest output.
const (
	ManifestFormats = "manifest.formats"
)

// Batch mode.
const (
	BatchParallel = "batch.parallel"
)

// History and suggestions.
const (
	HistorySave      = "history.save"
	QuerySuggestions = "query.suggestions"
)

// Iconography.
const (
	IconsVariant = "icons.variant"
)

// Logging.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI.
const (
	CliColored = "cli.colored"
)
