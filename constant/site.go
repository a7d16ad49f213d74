package constant

// Defaults of the built-in RÚV site profile.
const (
	RuvBaseOrigin  = "https://www.ruv.is"
	RuvPlaySegment = "/spila/"
	RuvTitleSuffix = " - RÚV"
	RuvCDNHost     = "ruv-vod.akamaized.net"
)

// Sentinel titles.
const (
	UnknownTitle  = "Unknown Title"
	FallbackTitle = "Untitled"
)

// Manifest file names.
const (
	ManifestJSON = "download_info.json"
	ManifestNFO  = "info.nfo"
)
