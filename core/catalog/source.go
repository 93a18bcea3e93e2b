package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"

	"improved-initiative/core/library"
)

// ErrNotFound is returned when the catalog holds no item for an id.
var ErrNotFound = fmt.Errorf("catalog: %w", library.ErrNotFound)

// Prefix is the object key prefix under which the catalog is published.
const Prefix = "catalog"

// Source serves the bundled, read-only catalog.
type Source interface {
	// FetchCatalog returns the listings published under a catalog path such
	// as "/statblocks/". A catalog that was never published yields nil.
	FetchCatalog(ctx context.Context, catalogPath string) ([]library.ListingMeta, error)
	// Fetch returns the raw JSON of one catalog item. link is the catalog path.
	Fetch(ctx context.Context, link, id string) ([]byte, error)
}

// Slug extracts the kind slug from a catalog path: "/statblocks/" -> "statblocks".
func Slug(catalogPath string) string {
	return strings.Trim(catalogPath, "/")
}

// IndexKey is the object key of a kind's listing index.
func IndexKey(catalogPath string) string {
	return path.Join(Prefix, Slug(catalogPath), "index.json")
}

// ItemKey is the object key of one item.
func ItemKey(catalogPath, id string) string {
	return path.Join(Prefix, Slug(catalogPath), id+".json")
}
