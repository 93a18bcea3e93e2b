package libraries

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"improved-initiative/core/account"
	"improved-initiative/core/catalog"
	"improved-initiative/core/library"
	"improved-initiative/core/store"
	"improved-initiative/core/tasks"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.UnixMilli(1000)

type fakeCatalog struct {
	metas map[string][]library.ListingMeta
	items map[string]string
	err   error
	wait  <-chan struct{}
}

func (f *fakeCatalog) FetchCatalog(ctx context.Context, catalogPath string) ([]library.ListingMeta, error) {
	if f.wait != nil && catalogPath == "/statblocks/" {
		<-f.wait
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.metas[catalogPath], nil
}

func (f *fakeCatalog) Fetch(ctx context.Context, link, id string) ([]byte, error) {
	body, ok := f.items[link+id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return []byte(body), nil
}

// gatedStore holds LoadAll of one namespace until wait is closed.
type gatedStore struct {
	store.Store
	namespace string
	wait      <-chan struct{}
}

func (g *gatedStore) LoadAll(ctx context.Context, namespace string) ([]json.RawMessage, error) {
	if namespace == g.namespace {
		<-g.wait
	}
	return g.Store.LoadAll(ctx, namespace)
}

type accountRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeAccount struct {
	mu       sync.Mutex
	listings map[string]string
	requests []accountRequest
}

func (f *fakeAccount) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, accountRequest{r.Method, r.URL.Path, string(body)})
	f.mu.Unlock()

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/my/"), "/")
	if listing, ok := f.listings[slug]; ok {
		w.Write([]byte(listing))
		return
	}
	http.NotFound(w, r)
}

func (f *fakeAccount) posts(path string) []accountRequest {
	return f.sent(http.MethodPost, path)
}

func (f *fakeAccount) sent(method, path string) []accountRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []accountRequest
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func newAccount(t *testing.T, fake *fakeAccount) *account.Client {
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := account.NewClient(account.Config{BaseURL: srv.URL, Token: "tok", TimeoutSeconds: 2})
	require.NoError(t, err)
	return c
}

type fixture struct {
	libs   *Libraries
	boot   *Bootstrap
	store  *store.Memory
	runner *tasks.Runner
}

func newFixture(t *testing.T, deps Deps) *fixture {
	mem := store.NewMemory()
	if deps.Store == nil {
		deps.Store = mem
	}
	runner := tasks.NewRunner(tasks.Options{MaxAttempts: 1}, zap.NewNop())
	deps.Runner = runner
	deps.Now = func() time.Time { return fixedNow }
	libs := New(deps)
	return &fixture{
		libs:   libs,
		boot:   NewBootstrap(libs, deps, 0),
		store:  mem,
		runner: runner,
	}
}
