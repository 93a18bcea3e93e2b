package libraries

import (
	"context"
	"encoding/json"
	"fmt"

	"improved-initiative/core/account"
	"improved-initiative/core/catalog"
	"improved-initiative/core/items"
	"improved-initiative/core/library"
	"improved-initiative/core/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Collection is a kind-agnostic view of one library, used where the item
// type does not matter: bootstrap, account sync and the HTTP surface.
type Collection interface {
	Kind() items.KindConfig
	Listings() []library.ListingMeta
	Search(query string, filter library.FilterDimensions) []library.ListingMeta
	Item(ctx context.Context, id string, refresh bool) (any, bool)
	Save(ctx context.Context, id string, raw []byte) (any, error)
	Delete(id string) bool
	AddListings(metas []library.ListingMeta, source library.Source)
	LoadLocal(ctx context.Context, st store.Store) (LocalLoad, error)
	AccountTarget() account.Target
	CatalogEntries(raws []json.RawMessage) ([]catalog.Entry, error)
}

// LocalLoad counts the stored items one LoadLocal call added and the ones it
// had to skip because they could not be decoded.
type LocalLoad struct {
	Loaded  int
	Skipped int
}

type binding[T library.Item[T]] struct {
	kind items.KindConfig
	lib  *library.Library[T]
	log  *zap.Logger
}

func (b *binding[T]) Kind() items.KindConfig { return b.kind }

func (b *binding[T]) Listings() []library.ListingMeta {
	return metas(b.lib.GetListings())
}

func (b *binding[T]) Search(query string, filter library.FilterDimensions) []library.ListingMeta {
	found := b.lib.Search(query)
	if len(filter) == 0 {
		return metas(found)
	}
	out := make([]library.ListingMeta, 0, len(found))
	for _, l := range found {
		if m := l.Meta(); m.FilterDimensions.Matches(filter) {
			out = append(out, m)
		}
	}
	return out
}

func (b *binding[T]) Item(ctx context.Context, id string, refresh bool) (any, bool) {
	listing, ok := b.lib.Get(id)
	if !ok {
		return nil, false
	}
	if refresh {
		listing.Invalidate()
	}
	return listing.GetWithTemplate(ctx, b.lib.Default()), true
}

func (b *binding[T]) AddListings(metas []library.ListingMeta, source library.Source) {
	b.lib.AddListings(metas, source)
}

// Save decodes raw over the kind default and saves it as id, creating the
// listing when id is unknown.
func (b *binding[T]) Save(ctx context.Context, id string, raw []byte) (any, error) {
	item := b.lib.Default()
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", b.kind.Slug, err)
	}
	listing := b.lib.GetOrCreateListingByID(id)
	b.lib.SaveEditedListing(listing, item)
	return listing.GetWithTemplate(ctx, b.lib.Default()), nil
}

// Delete removes id and reports whether it was present.
func (b *binding[T]) Delete(id string) bool {
	if _, ok := b.lib.Get(id); !ok {
		return false
	}
	b.lib.DeleteListing(id)
	return true
}

// LoadLocal reads every stored item, derives its listing and adds the batch
// as local listings. Items that do not decode are logged and skipped.
func (b *binding[T]) LoadLocal(ctx context.Context, st store.Store) (LocalLoad, error) {
	raws, err := st.LoadAll(ctx, b.kind.Namespace)
	if err != nil {
		return LocalLoad{}, err
	}
	var res LocalLoad
	out := make([]library.ListingMeta, 0, len(raws))
	for i, raw := range raws {
		item := b.lib.Default()
		if err := json.Unmarshal(raw, &item); err != nil {
			b.log.Warn("Skipping undecodable stored item", zap.Int("index", i), zap.Error(err))
			res.Skipped++
			continue
		}
		out = append(out, b.lib.MetaFor(item, b.kind.Namespace))
	}
	b.lib.AddListings(out, library.SourceLocal)
	res.Loaded = len(out)
	return res, nil
}

// AccountTarget lists local listings backed by a real item. Placeholders
// created for an unknown id are left out until they are saved.
func (b *binding[T]) AccountTarget() account.Target {
	t := account.Target{Slug: b.kind.Slug}
	for _, listing := range b.lib.ListingsFrom(library.SourceLocal) {
		if listing.Provisional() {
			continue
		}
		m := listing.Meta()
		t.Candidates = append(t.Candidates, account.Candidate{
			ID:           m.ID,
			LastUpdateMs: m.LastUpdateMs,
			Load: func(ctx context.Context) (any, error) {
				return listing.GetWithTemplate(ctx, b.lib.Default()), nil
			},
		})
	}
	return t
}

// CatalogEntries decodes seed items over the kind default and derives their
// catalog listings. Items without an Id get one.
func (b *binding[T]) CatalogEntries(raws []json.RawMessage) ([]catalog.Entry, error) {
	entries := make([]catalog.Entry, 0, len(raws))
	for i, raw := range raws {
		item := b.lib.Default()
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to decode %s seed %d: %w", b.kind.Slug, i, err)
		}
		if ident := item.Identity(); ident.ID == "" {
			ident.ID = uuid.NewString()
			item = item.WithIdentity(ident)
		}
		body, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s seed %d: %w", b.kind.Slug, i, err)
		}
		entries = append(entries, catalog.Entry{
			Meta: b.lib.MetaFor(item, b.kind.CatalogPath),
			Body: body,
		})
	}
	return entries, nil
}

func metas[T library.Item[T]](listings []*library.Listing[T]) []library.ListingMeta {
	out := make([]library.ListingMeta, len(listings))
	for i, l := range listings {
		out[i] = l.Meta()
	}
	return out
}
