package library

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Search returns listings whose name or search hint fuzzy-matches query,
// best match first. An empty query returns every listing.
func (l *Library[T]) Search(query string) []*Listing[T] {
	listings := l.GetListings()
	query = strings.TrimSpace(query)
	if query == "" {
		return listings
	}

	haystack := make([]string, len(listings))
	for i, listing := range listings {
		meta := listing.Meta()
		haystack[i] = meta.Name + " " + meta.SearchHint
	}

	matches := fuzzy.Find(query, haystack)
	out := make([]*Listing[T], 0, len(matches))
	for _, m := range matches {
		out = append(out, listings[m.Index])
	}
	return out
}

// Filter returns listings whose dimensions contain every key/value in want.
func (l *Library[T]) Filter(want FilterDimensions) []*Listing[T] {
	listings := l.GetListings()
	if len(want) == 0 {
		return listings
	}
	out := make([]*Listing[T], 0, len(listings))
	for _, listing := range listings {
		if listing.Meta().FilterDimensions.Matches(want) {
			out = append(out, listing)
		}
	}
	return out
}
