// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "ruvdl"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the default browser-like User-Agent sent with every page request.
	// The site serves reduced markup to clients it does not recognise as browsers.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Accept mirrors what a desktop browser sends for a top-level navigation.
	Accept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"

	// AcceptLanguage asks for Icelandic first; the site varies content by locale.
	AcceptLanguage = "is-IS,is;q=0.9,en;q=0.8"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
