// Package location turns free-text place mentions ("new york", "heathrow",
// "frankfrut") into IATA airport codes through a cascade of strategies.
// Every strategy returns "" on failure and the next one is tried; only a
// fully exhausted cascade yields an empty result.
package location

import "context"

// PlaceLookup resolves a place name remotely. Implementations must honor the
// context deadline and are expected to fail soft: ("", nil) simply moves the
// cascade on.
type PlaceLookup interface {
	LookupIATA(ctx context.Context, query string) (string, error)
}

// Resolver resolves location text to an IATA code. Index is required (an
// empty index is fine); Places is optional and only consulted when the local
// strategies miss.
type Resolver struct {
	Index  *AirportIndex
	Places PlaceLookup
}

func NewResolver(index *AirportIndex, places PlaceLookup) *Resolver {
	return &Resolver{Index: index, Places: places}
}

// Resolve runs the cascade: alias table, reference index, remote lookup,
// heuristic guess. Returns "" when the route end cannot be determined;
// callers must surface that instead of guessing further.
func (r *Resolver) Resolve(ctx context.Context, text string) string {
	if code := resolveAlias(text); code != "" {
		return code
	}

	query := NormalizeQuery(text)
	if query == "" {
		return ""
	}

	if r.Index != nil {
		if code := r.Index.Lookup(query); code != "" {
			return code
		}
	}

	if r.Places != nil {
		if code, err := r.Places.LookupIATA(ctx, query); err == nil && code != "" {
			return code
		}
	}

	return Guess(query)
}
