package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"improved-initiative/core/library"
	"improved-initiative/core/utils"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no item is stored under an id.
var ErrNotFound = errors.New("store: item not found")

// Store is the local key-value persistence for library items, grouped by
// namespace. Items are stored as JSON.
type Store interface {
	// LoadAll returns every item in namespace. Items without an Id are
	// assigned one, and the assignment is persisted before returning.
	// Records that are not JSON objects are logged and returned unchanged;
	// one bad record never hides the others.
	LoadAll(ctx context.Context, namespace string) ([]json.RawMessage, error)
	// Load returns one item or ErrNotFound.
	Load(ctx context.Context, namespace, id string) (json.RawMessage, error)
	// Save writes item under id, replacing any previous value.
	Save(ctx context.Context, namespace, id string, item any) error
	// Delete removes id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, namespace, id string) error
}

// AsFetcher exposes s as a library.Fetcher whose link is the namespace.
func AsFetcher(s Store) library.Fetcher {
	return library.FetcherFunc(func(ctx context.Context, link, id string) ([]byte, error) {
		raw, err := s.Load(ctx, link, id)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", library.ErrNotFound, link, id)
		}
		return raw, err
	})
}

func encode(item any) ([]byte, error) {
	switch v := item.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	}
	b, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item: %w", err)
	}
	return b, nil
}

// ensureID returns body with an Id. key is the id the record is stored
// under; it becomes the Id when the body has none, and a fresh uuid is used
// when both are empty. changed reports whether body was rewritten.
func ensureID(key string, body []byte) (id string, out []byte, changed bool, err error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", nil, false, fmt.Errorf("failed to decode stored item %q: %w", key, err)
	}
	if id = utils.ToString(fields["Id"]); id != "" {
		return id, body, false, nil
	}
	id = key
	if id == "" {
		id = uuid.NewString()
	}
	fields["Id"] = id
	out, err = json.Marshal(fields)
	if err != nil {
		return "", nil, false, fmt.Errorf("failed to encode stored item %q: %w", key, err)
	}
	return id, out, true, nil
}
