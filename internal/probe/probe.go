// Package probe chains fallible lookups: each probe either finds something or
// reports absence, and the first one that finds something wins.
package probe

import (
	"strings"

	"github.com/samber/mo"
)

// Probe inspects in and returns a result or None.
type Probe[In, Out any] func(in In) mo.Option[Out]

// First runs probes in order and returns the first present result.
// Probes after the first hit are not called.
func First[In, Out any](in In, probes ...Probe[In, Out]) mo.Option[Out] {
	for _, p := range probes {
		if out := p(in); out.IsPresent() {
			return out
		}
	}
	return mo.None[Out]()
}

// NonEmpty is Some(items) when items has at least one element.
func NonEmpty[T any](items []T) mo.Option[[]T] {
	if len(items) == 0 {
		return mo.None[[]T]()
	}
	return mo.Some(items)
}

// NonBlank is Some(trimmed s) when s has non-space content.
func NonBlank(s string) mo.Option[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return mo.None[string]()
	}
	return mo.Some(s)
}
