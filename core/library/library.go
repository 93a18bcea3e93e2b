package library

import (
	"context"
	"slices"
	"sync"
	"time"

	"improved-initiative/core/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config wires a Library to its item type and collaborators.
type Config[T Item[T]] struct {
	// Kind is the item kind slug, used in logs and task keys.
	Kind string

	// DisplayName names provisional listings before real data arrives.
	DisplayName string

	// Namespace is the local storage namespace and the Link of local items.
	Namespace string

	// Default builds the template an item is decoded over.
	Default func() T

	// SearchHint derives free search text from an item.
	SearchHint func(T) string

	// FilterDimensions derives facets from an item.
	FilterDimensions func(T) FilterDimensions

	// Store persists local edits and deletions. Optional.
	Store Persister

	// Fetcher loads full items by Link. Optional.
	Fetcher Fetcher

	// AccountSave pushes an edited item to the account. Optional.
	AccountSave func(ctx context.Context, item T) error

	// AccountDelete removes an item from the account. Optional.
	AccountDelete func(ctx context.Context, id string) error

	// Runner executes detached persistence. Defaults to a tasks.Runner.
	Runner Runner

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Library owns the listings of one item kind, reconciles batches arriving
// from the server catalog, local storage and the account, and fans local
// edits out to storage and the account.
type Library[T Item[T]] struct {
	cfg Config[T]
	log *zap.Logger

	mu       sync.RWMutex
	byID     map[string]*Listing[T]
	listings []*Listing[T]

	subs subscribers[[]*Listing[T]]
}

// New creates an empty Library.
func New[T Item[T]](cfg Config[T]) *Library[T] {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Runner == nil {
		cfg.Runner = tasks.NewRunner(tasks.Options{}, cfg.Logger)
	}
	if cfg.SearchHint == nil {
		cfg.SearchHint = func(T) string { return "" }
	}
	if cfg.FilterDimensions == nil {
		cfg.FilterDimensions = func(T) FilterDimensions { return nil }
	}
	return &Library[T]{
		cfg:  cfg,
		log:  cfg.Logger.With(zap.String("kind", cfg.Kind)),
		byID: make(map[string]*Listing[T]),
	}
}

// Kind returns the item kind slug.
func (l *Library[T]) Kind() string { return l.cfg.Kind }

// Namespace returns the local storage namespace.
func (l *Library[T]) Namespace() string { return l.cfg.Namespace }

// Default returns a fresh default item.
func (l *Library[T]) Default() T {
	if l.cfg.Default == nil {
		var zero T
		return zero
	}
	return l.cfg.Default()
}

// MetaFor derives listing metadata from a full item stored under link.
func (l *Library[T]) MetaFor(item T, link string) ListingMeta {
	ident := item.Identity()
	return ListingMeta{
		ID:               ident.ID,
		Name:             ident.Name,
		Path:             ident.Path,
		SearchHint:       l.cfg.SearchHint(item),
		FilterDimensions: l.cfg.FilterDimensions(item),
		Link:             link,
		LastUpdateMs:     ident.LastUpdateMs,
	}
}

// Subscribe registers fn to receive the listing collection after every
// change. The returned function removes the subscription.
func (l *Library[T]) Subscribe(fn func([]*Listing[T])) func() {
	return l.subs.add(fn)
}

// GetListings returns the listings in insertion order.
func (l *Library[T]) GetListings() []*Listing[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.listings)
}

// Get returns the listing for id, if any.
func (l *Library[T]) Get(id string) (*Listing[T], bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	listing, ok := l.byID[id]
	return listing, ok
}

// GetOrCreateListingByID returns the listing for id, creating a provisional
// one when the id is unknown. An empty id is assigned a new one.
func (l *Library[T]) GetOrCreateListingByID(id string) *Listing[T] {
	if id == "" {
		id = uuid.NewString()
	}

	l.mu.Lock()
	if listing, ok := l.byID[id]; ok {
		l.mu.Unlock()
		return listing
	}
	listing := newListing[T](ListingMeta{
		ID:   id,
		Name: l.cfg.DisplayName,
		Link: l.cfg.Namespace,
	}, SourceLocal, l.cfg.Fetcher, l.log)
	listing.provisional = true
	l.insertLocked(listing)
	snapshot := slices.Clone(l.listings)
	l.mu.Unlock()

	l.subs.notify(snapshot)
	return listing
}

// AddListings merges a batch into the collection. For an id already present
// the greater LastUpdateMs wins; on a tie the incoming listing wins only when
// it comes from the account. A listing holding a loaded item is replaced only
// by strictly newer data. Applying the same batch twice changes nothing.
func (l *Library[T]) AddListings(metas []ListingMeta, source Source) {
	var (
		changed []*Listing[T]
		skipped int
	)

	l.mu.Lock()
	for _, meta := range metas {
		if meta.ID == "" {
			skipped++
			continue
		}
		current, ok := l.byID[meta.ID]
		if !ok {
			listing := newListing[T](meta, source, l.cfg.Fetcher, l.log)
			l.insertLocked(listing)
			changed = append(changed, listing)
			continue
		}
		if !supersedes(current, meta, source) {
			continue
		}
		current.replace(meta, source)
		changed = append(changed, current)
	}
	var snapshot []*Listing[T]
	if len(changed) > 0 {
		snapshot = slices.Clone(l.listings)
	}
	l.mu.Unlock()

	if skipped > 0 {
		l.log.Warn("Skipped listings without id", zap.String("source", string(source)), zap.Int("count", skipped))
	}
	if len(changed) == 0 {
		return
	}
	for _, listing := range changed {
		listing.notify()
	}
	l.subs.notify(snapshot)
}

// supersedes decides whether incoming metadata replaces the current listing.
func supersedes[T Item[T]](current *Listing[T], incoming ListingMeta, source Source) bool {
	current.mu.RLock()
	defer current.mu.RUnlock()

	switch {
	case incoming.LastUpdateMs > current.meta.LastUpdateMs:
		return true
	case incoming.LastUpdateMs < current.meta.LastUpdateMs:
		return false
	case current.cached:
		return false
	case source != SourceAccount:
		return false
	}
	return current.origin != source || !current.meta.Equal(incoming)
}

// SaveEditedListing stores an edited item. Metadata is recomputed from the
// item, LastUpdateMs moves past both the clock and the previous value, and
// the in-memory state is updated before returning. Local and account
// persistence run detached; their failures are logged only.
func (l *Library[T]) SaveEditedListing(listing *Listing[T], item T) {
	ident := item.Identity()
	id := listing.Meta().ID
	if id == "" {
		id = ident.ID
	}
	if id == "" {
		id = uuid.NewString()
	}

	l.mu.Lock()
	old := listing.Meta()
	if current, ok := l.byID[id]; ok && current != listing {
		old = current.Meta()
	}
	ts := max(l.cfg.Now().UnixMilli(), old.LastUpdateMs+1)

	ident.ID = id
	ident.LastUpdateMs = ts
	item = item.WithIdentity(ident)
	meta := l.MetaFor(item, l.cfg.Namespace)

	listing.edit(meta, item)
	if current, ok := l.byID[id]; !ok {
		// Deleted while the edit was in flight; the edit brings it back.
		l.insertLocked(listing)
	} else if current != listing {
		l.byID[id] = listing
		l.listings[slices.Index(l.listings, current)] = listing
	}
	snapshot := slices.Clone(l.listings)
	l.mu.Unlock()

	listing.notify()
	l.subs.notify(snapshot)

	key := l.cfg.Namespace + "/" + id
	if l.cfg.Store != nil {
		l.cfg.Runner.Go(key, func(ctx context.Context) error {
			return l.cfg.Store.Save(ctx, l.cfg.Namespace, id, item)
		})
	}
	if l.cfg.AccountSave != nil {
		l.cfg.Runner.Go("account/"+key, func(ctx context.Context) error {
			return l.cfg.AccountSave(ctx, item)
		})
	}
}

// DeleteListing removes id from the collection, local storage and the
// account. Unknown ids are ignored.
func (l *Library[T]) DeleteListing(id string) {
	l.mu.Lock()
	listing, ok := l.byID[id]
	if !ok {
		l.mu.Unlock()
		return
	}
	delete(l.byID, id)
	l.listings = slices.DeleteFunc(l.listings, func(x *Listing[T]) bool { return x == listing })
	snapshot := slices.Clone(l.listings)
	l.mu.Unlock()

	l.subs.notify(snapshot)

	key := l.cfg.Namespace + "/" + id
	if l.cfg.Store != nil {
		l.cfg.Runner.Go(key, func(ctx context.Context) error {
			return l.cfg.Store.Delete(ctx, l.cfg.Namespace, id)
		})
	}
	if l.cfg.AccountDelete != nil {
		l.cfg.Runner.Go("account/"+key, func(ctx context.Context) error {
			return l.cfg.AccountDelete(ctx, id)
		})
	}
}

// ListingsFrom returns the listings whose current metadata came from source.
func (l *Library[T]) ListingsFrom(source Source) []*Listing[T] {
	var out []*Listing[T]
	for _, listing := range l.GetListings() {
		if listing.Origin() == source {
			out = append(out, listing)
		}
	}
	return out
}

func (l *Library[T]) insertLocked(listing *Listing[T]) {
	l.byID[listing.Meta().ID] = listing
	l.listings = append(l.listings, listing)
}
