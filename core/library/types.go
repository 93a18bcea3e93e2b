package library

import (
	"context"
	"errors"
	"maps"
)

// ErrNotFound is returned by a Fetcher when the backend holds no item for the id.
var ErrNotFound = errors.New("item not found")

// ErrNoFetcher is returned by a Router when no fetcher serves a link.
var ErrNoFetcher = errors.New("no fetcher for link")

// Source tags the provenance of a batch of listings.
type Source string

const (
	// SourceServer marks listings from the bundled server catalog.
	SourceServer Source = "server"
	// SourceLocal marks listings derived from local storage.
	SourceLocal Source = "localAsync"
	// SourceAccount marks listings from the remote account. Wins timestamp ties.
	SourceAccount Source = "account"
)

// FilterDimensions maps a facet name to its value for one item.
type FilterDimensions map[string]string

// Matches reports whether every key/value in want is present in d.
func (d FilterDimensions) Matches(want FilterDimensions) bool {
	for k, v := range want {
		if d[k] != v {
			return false
		}
	}
	return true
}

// Identity is the part of an item a listing mirrors.
type Identity struct {
	ID           string
	Name         string
	Path         string
	LastUpdateMs int64
}

// Item is implemented by every value a Library stores.
// WithIdentity returns a copy of the item carrying id.
type Item[T any] interface {
	Identity() Identity
	WithIdentity(id Identity) T
}

// ListingMeta is the searchable summary of one item.
type ListingMeta struct {
	// ID is unique within a Library.
	ID string `json:"Id"`

	// Name is the display name.
	Name string `json:"Name"`

	// Path groups listings hierarchically, e.g. "Goblins/Bosses".
	Path string `json:"Path"`

	// SearchHint is free text matched by Library.Search.
	SearchHint string `json:"SearchHint"`

	// FilterDimensions holds the facets matched by Library.Filter.
	FilterDimensions FilterDimensions `json:"FilterDimensions,omitempty"`

	// Link names the backend that holds the full item.
	Link string `json:"Link"`

	// LastUpdateMs orders conflicting versions; later wins.
	LastUpdateMs int64 `json:"LastUpdateMs"`
}

// Equal reports whether two metas are identical.
func (m ListingMeta) Equal(o ListingMeta) bool {
	return m.ID == o.ID &&
		m.Name == o.Name &&
		m.Path == o.Path &&
		m.SearchHint == o.SearchHint &&
		m.Link == o.Link &&
		m.LastUpdateMs == o.LastUpdateMs &&
		maps.Equal(m.FilterDimensions, o.FilterDimensions)
}

func (m ListingMeta) clone() ListingMeta {
	m.FilterDimensions = maps.Clone(m.FilterDimensions)
	return m
}

// Fetcher loads the raw JSON of one full item from the backend named by link.
type Fetcher interface {
	Fetch(ctx context.Context, link, id string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, link, id string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, link, id string) ([]byte, error) {
	return f(ctx, link, id)
}

// Persister writes full items to local storage.
type Persister interface {
	Save(ctx context.Context, namespace, id string, item any) error
	Delete(ctx context.Context, namespace, id string) error
}

// Runner executes detached work. Tasks sharing a key run in submission order.
type Runner interface {
	Go(key string, task func(ctx context.Context) error)
}
