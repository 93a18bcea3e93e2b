package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Listing is a shared handle on one item: its metadata plus the full item,
// loaded lazily from the backend named by the metadata Link.
type Listing[T Item[T]] struct {
	mu     sync.RWMutex
	meta   ListingMeta
	origin Source
	item   T
	cached bool
	// provisional is set until real metadata or an edit arrives.
	provisional bool
	// gen changes whenever meta or cache is replaced, so a fetch that
	// started before the change does not overwrite newer state.
	gen uint64

	fetcher Fetcher
	log     *zap.Logger
	sf      singleflight.Group
	subs    subscribers[ListingMeta]
}

func newListing[T Item[T]](meta ListingMeta, origin Source, fetcher Fetcher, log *zap.Logger) *Listing[T] {
	return &Listing[T]{
		meta:    meta.clone(),
		origin:  origin,
		fetcher: fetcher,
		log:     log,
	}
}

// Meta returns a snapshot of the current metadata.
func (l *Listing[T]) Meta() ListingMeta {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meta.clone()
}

// Origin returns the source of the current metadata.
func (l *Listing[T]) Origin() Source {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.origin
}

// Provisional reports whether the listing was created as a placeholder by
// GetOrCreateListingByID and has not been saved or replaced since.
func (l *Listing[T]) Provisional() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.provisional
}

// Cached reports whether the full item is held in memory.
func (l *Listing[T]) Cached() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cached
}

// Subscribe registers fn to receive the metadata after every change to the
// listing. The returned function removes the subscription.
func (l *Listing[T]) Subscribe(fn func(ListingMeta)) func() {
	return l.subs.add(fn)
}

// GetWithTemplate returns the full item. On first access it is fetched and
// decoded over defaultItem so fields absent from the stored JSON keep their
// defaults. It never fails: when the item cannot be loaded it returns
// defaultItem carrying the known metadata, and nothing is cached.
func (l *Listing[T]) GetWithTemplate(ctx context.Context, defaultItem T) T {
	l.mu.RLock()
	if l.cached {
		item := l.item
		l.mu.RUnlock()
		return item
	}
	meta, gen := l.meta.clone(), l.gen
	l.mu.RUnlock()

	raw, err := l.fetch(ctx, meta, gen)
	if err != nil {
		l.logFetchError(meta, err)
		return withMeta(defaultItem, meta)
	}

	item, err := decodeOver(defaultItem, raw)
	if err != nil {
		l.log.Warn("Failed to decode library item",
			zap.String("id", meta.ID), zap.String("link", meta.Link), zap.Error(err))
		return withMeta(defaultItem, meta)
	}
	ident := item.Identity()
	ident.ID = meta.ID
	if ident.Name == "" {
		ident.Name = meta.Name
	}
	if ident.Path == "" {
		ident.Path = meta.Path
	}
	item = item.WithIdentity(ident)

	l.mu.Lock()
	if l.cached {
		item = l.item
		l.mu.Unlock()
		return item
	}
	if l.gen != gen {
		// Replaced while fetching; hand back what was read without caching it.
		l.mu.Unlock()
		return item
	}
	l.item, l.cached = item, true
	snapshot := l.meta.clone()
	l.mu.Unlock()

	l.subs.notify(snapshot)
	return item
}

// Invalidate drops the cached item so the next access fetches again.
func (l *Listing[T]) Invalidate() {
	l.mu.Lock()
	if !l.cached {
		l.mu.Unlock()
		return
	}
	var zero T
	l.item, l.cached = zero, false
	l.gen++
	snapshot := l.meta.clone()
	l.mu.Unlock()

	l.subs.notify(snapshot)
}

func (l *Listing[T]) fetch(ctx context.Context, meta ListingMeta, gen uint64) ([]byte, error) {
	if l.fetcher == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoFetcher, meta.Link)
	}
	key := fmt.Sprintf("%d|%s|%s", gen, meta.Link, meta.ID)
	v, err, _ := l.sf.Do(key, func() (any, error) {
		return l.fetcher.Fetch(ctx, meta.Link, meta.ID)
	})
	if err != nil {
		return nil, err
	}
	raw, _ := v.([]byte)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrNotFound)
	}
	return raw, nil
}

func (l *Listing[T]) logFetchError(meta ListingMeta, err error) {
	fields := []zap.Field{zap.String("id", meta.ID), zap.String("link", meta.Link), zap.Error(err)}
	if errors.Is(err, ErrNotFound) {
		l.log.Debug("Library item missing, using default", fields...)
		return
	}
	l.log.Warn("Failed to fetch library item, using default", fields...)
}

// replace installs newer metadata and drops any cached item.
// Callers hold the owning Library's lock.
func (l *Listing[T]) replace(meta ListingMeta, origin Source) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.meta, l.origin = meta.clone(), origin
	l.item, l.cached = zero, false
	l.provisional = false
	l.gen++
}

// edit installs metadata and item from a local save.
func (l *Listing[T]) edit(meta ListingMeta, item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.meta, l.origin = meta.clone(), SourceLocal
	l.item, l.cached = item, true
	l.provisional = false
	l.gen++
}

func (l *Listing[T]) notify() {
	l.subs.notify(l.Meta())
}

func decodeOver[T any](defaultItem T, raw []byte) (T, error) {
	item := defaultItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return defaultItem, err
	}
	return item, nil
}

func withMeta[T Item[T]](item T, meta ListingMeta) T {
	ident := item.Identity()
	ident.ID = meta.ID
	if meta.Name != "" {
		ident.Name = meta.Name
	}
	if meta.Path != "" {
		ident.Path = meta.Path
	}
	ident.LastUpdateMs = meta.LastUpdateMs
	return item.WithIdentity(ident)
}
