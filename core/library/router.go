package library

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Router dispatches fetches to the Fetcher registered for the longest
// matching link prefix.
type Router struct {
	mu     sync.RWMutex
	routes map[string]Fetcher
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]Fetcher)}
}

// Handle registers f for every link starting with prefix.
func (r *Router) Handle(prefix string, f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[prefix] = f
}

// Fetch implements Fetcher.
func (r *Router) Fetch(ctx context.Context, link, id string) ([]byte, error) {
	r.mu.RLock()
	var (
		best    Fetcher
		bestLen = -1
	)
	for prefix, f := range r.routes {
		if strings.HasPrefix(link, prefix) && len(prefix) > bestLen {
			best, bestLen = f, len(prefix)
		}
	}
	r.mu.RUnlock()

	if best == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoFetcher, link)
	}
	return best.Fetch(ctx, link, id)
}
