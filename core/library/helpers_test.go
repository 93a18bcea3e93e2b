package library_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"improved-initiative/core/library"
	"improved-initiative/core/tasks"

	"go.uber.org/zap"
)

type note struct {
	Id           string
	Name         string
	Path         string
	LastUpdateMs int64
	Body         string
	Tags         []string
	Pinned       bool
}

func defaultNote() note {
	return note{Body: "(empty)", Tags: []string{}}
}

func (n note) Identity() library.Identity {
	return library.Identity{ID: n.Id, Name: n.Name, Path: n.Path, LastUpdateMs: n.LastUpdateMs}
}

func (n note) WithIdentity(id library.Identity) note {
	n.Id, n.Name, n.Path, n.LastUpdateMs = id.ID, id.Name, id.Path, id.LastUpdateMs
	return n
}

type countingFetcher struct {
	calls atomic.Int32
	body  map[string]string
	err   error
	gate  chan struct{}
}

func (f *countingFetcher) Fetch(ctx context.Context, link, id string) ([]byte, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.body[link+id]
	if !ok {
		return nil, library.ErrNotFound
	}
	return []byte(b), nil
}

type call struct {
	op        string
	namespace string
	id        string
	item      any
}

type recordingStore struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (s *recordingStore) Save(ctx context.Context, namespace, id string, item any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{"save", namespace, id, item})
	return s.err
}

func (s *recordingStore) Delete(ctx context.Context, namespace, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{"delete", namespace, id, nil})
	return s.err
}

func (s *recordingStore) ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.op + ":" + c.id
	}
	return out
}

type fixture struct {
	lib     *library.Library[note]
	runner  *tasks.Runner
	store   *recordingStore
	fetcher *countingFetcher
	now     time.Time

	accountSaved   []note
	accountDeleted []string
	accountMu      sync.Mutex
}

func newFixture() *fixture {
	f := &fixture{
		runner:  tasks.NewRunner(tasks.Options{MaxAttempts: 1, InitialInterval: time.Millisecond}, zap.NewNop()),
		store:   &recordingStore{},
		fetcher: &countingFetcher{body: map[string]string{}},
		now:     time.UnixMilli(1_000),
	}
	f.lib = library.New(library.Config[note]{
		Kind:        "notes",
		DisplayName: "Note",
		Namespace:   "Notes",
		Default:     defaultNote,
		SearchHint:  func(n note) string { return n.Body },
		FilterDimensions: func(n note) library.FilterDimensions {
			if n.Pinned {
				return library.FilterDimensions{"Pinned": "yes"}
			}
			return library.FilterDimensions{"Pinned": "no"}
		},
		Store:   f.store,
		Fetcher: f.fetcher,
		AccountSave: func(ctx context.Context, n note) error {
			f.accountMu.Lock()
			defer f.accountMu.Unlock()
			f.accountSaved = append(f.accountSaved, n)
			return nil
		},
		AccountDelete: func(ctx context.Context, id string) error {
			f.accountMu.Lock()
			defer f.accountMu.Unlock()
			f.accountDeleted = append(f.accountDeleted, id)
			return errors.New("account offline")
		},
		Runner: f.runner,
		Logger: zap.NewNop(),
		Now:    func() time.Time { return f.now },
	})
	return f
}

func ids(listings []*library.Listing[note]) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.Meta().ID
	}
	return out
}
