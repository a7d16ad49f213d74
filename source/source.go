// Package source defines the domain models shared by the scraper, the orchestrator and the writers.
package source

import "context"

// Source reads one site. Implementations must not keep state between calls,
// so several processes can use their own Source at the same time.
type Source interface {
	// ID is the site profile identifier, e.g. "ruv".
	ID() string
	// Name is the human readable site name.
	Name() string
	// Series fetches a series page once and returns its title and episode candidates.
	Series(ctx context.Context, url string) (*Series, error)
	// Episode fetches one episode page and extracts its metadata.
	Episode(ctx context.Context, candidate *Candidate) (*Metadata, error)
}
