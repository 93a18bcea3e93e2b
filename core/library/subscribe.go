package library

import (
	"slices"
	"sync"
)

// subscribers holds callbacks. It is safe for concurrent use and never
// invokes a callback while holding its own lock.
type subscribers[E any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(E)
}

func (s *subscribers[E]) add(fn func(E)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(E))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers[E]) notify(e E) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(E), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.fns[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
