package catalog_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"improved-initiative/core/catalog"
	"improved-initiative/core/library"
	"improved-initiative/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func object(body string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(body))
}

var noSuchKey = minio.ErrorResponse{Code: "NoSuchKey"}

func TestKeys(t *testing.T) {
	assert.Equal(t, "statblocks", catalog.Slug("/statblocks/"))
	assert.Equal(t, "catalog/statblocks/index.json", catalog.IndexKey("/statblocks/"))
	assert.Equal(t, "catalog/spells/fireball.json", catalog.ItemKey("/spells/", "fireball"))
}

func TestBucketSource_FetchCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("Published", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "library", "catalog/statblocks/index.json", mock.Anything).
			Return(object(`[{"Id":"s1","Name":"Goblin","Link":"/statblocks/","LastUpdateMs":100}]`), nil)

		metas, err := catalog.NewBucketSource(client, "library").FetchCatalog(ctx, "/statblocks/")
		require.NoError(t, err)
		assert.Equal(t, []library.ListingMeta{{ID: "s1", Name: "Goblin", Link: "/statblocks/", LastUpdateMs: 100}}, metas)
	})

	t.Run("NeverPublished", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "library", "catalog/spells/index.json", mock.Anything).Return(nil, noSuchKey)

		metas, err := catalog.NewBucketSource(client, "library").FetchCatalog(ctx, "/spells/")
		assert.NoError(t, err)
		assert.Nil(t, metas)
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "library", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		_, err := catalog.NewBucketSource(client, "library").FetchCatalog(ctx, "/spells/")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Corrupt", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", ctx, "library", mock.Anything, mock.Anything).Return(object(`{`), nil)

		_, err := catalog.NewBucketSource(client, "library").FetchCatalog(ctx, "/spells/")
		assert.ErrorContains(t, err, "failed to decode catalog index")
	})
}

func TestBucketSource_Fetch(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("GetObject", ctx, "library", "catalog/spells/fireball.json", mock.Anything).Return(object(`{"Id":"fireball"}`), nil)
	client.On("GetObject", ctx, "library", "catalog/spells/nope.json", mock.Anything).Return(nil, noSuchKey)

	src := catalog.NewBucketSource(client, "library")

	body, err := src.Fetch(ctx, "/spells/", "fireball")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Id":"fireball"}`, string(body))

	_, err = src.Fetch(ctx, "/spells/", "nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.ErrorIs(t, err, library.ErrNotFound)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/statblocks/":
			w.Write([]byte(`[{"Id":"s1","LastUpdateMs":100}]`))
		case "/statblocks/s1":
			w.Write([]byte(`{"Id":"s1","Name":"Goblin"}`))
		case "/broken/":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	src := catalog.NewHTTPSource(srv.URL+"/", time.Second)

	metas, err := src.FetchCatalog(ctx, "/statblocks/")
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, int64(100), metas[0].LastUpdateMs)

	metas, err = src.FetchCatalog(ctx, "/spells/")
	assert.NoError(t, err)
	assert.Nil(t, metas)

	_, err = src.FetchCatalog(ctx, "/broken/")
	assert.ErrorContains(t, err, "status 502")

	body, err := src.Fetch(ctx, "/statblocks/", "s1")
	require.NoError(t, err)
	assert.Contains(t, string(body), "Goblin")

	_, err = src.Fetch(ctx, "/statblocks/", "missing")
	assert.ErrorIs(t, err, library.ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = src.FetchCatalog(cancelled, "/statblocks/")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)

	client.On("PutObject", ctx, "library", "catalog/spells/fireball.json", mock.Anything, int64(17), mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("PutObject", ctx, "library", "catalog/spells/index.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	listed := make(chan minio.ObjectInfo, 3)
	listed <- minio.ObjectInfo{Key: "catalog/spells/index.json"}
	listed <- minio.ObjectInfo{Key: "catalog/spells/fireball.json"}
	listed <- minio.ObjectInfo{Key: "catalog/spells/stale.json"}
	close(listed)
	client.On("ListObjects", ctx, "library", minio.ListObjectsOptions{Prefix: "catalog/spells/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(listed))
	client.On("RemoveObject", ctx, "library", "catalog/spells/stale.json", mock.Anything).Return(nil)

	res, err := catalog.NewPublisher(client, "library").Publish(ctx, "/spells/", []catalog.Entry{
		{Meta: library.ListingMeta{ID: "fireball", Name: "Fireball"}, Body: []byte(`{"Id":"fireball"}`)},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, catalog.PublishResult{Written: 1, Pruned: 1}, res)
	client.AssertExpectations(t)
}

func TestPublisher_RejectsMissingID(t *testing.T) {
	client := new(mocks.Client)
	_, err := catalog.NewPublisher(client, "library").Publish(context.Background(), "/spells/", []catalog.Entry{
		{Meta: library.ListingMeta{Name: "Nameless"}},
	}, false)
	assert.ErrorContains(t, err, "has no id")
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadSeeds(t *testing.T) {
	fsys := fstest.MapFS{
		"spells/evocation.yaml": {Data: []byte("- Id: fireball\n  Name: Fireball\n  Level: 3\n- Id: shield\n  Name: Shield\n")},
		"spells/extra/ray.json": {Data: []byte(`{"Id":"ray","Name":"Ray of Frost"}`)},
		"spells/README.md":      {Data: []byte("ignored")},
	}

	items, err := catalog.LoadSeeds(fsys, "spells/**/*.yaml", "spells/**/*.json", "spells/*.yaml")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.JSONEq(t, `{"Id":"fireball","Name":"Fireball","Level":3}`, string(items[0]))
	assert.JSONEq(t, `{"Id":"shield","Name":"Shield"}`, string(items[1]))
	assert.JSONEq(t, `{"Id":"ray","Name":"Ray of Frost"}`, string(items[2]))
}

func TestLoadSeeds_Errors(t *testing.T) {
	_, err := catalog.LoadSeeds(fstest.MapFS{"a.json": {Data: []byte(`[1, 2]`)}}, "*.json")
	assert.ErrorContains(t, err, "is not an object")

	_, err = catalog.LoadSeeds(fstest.MapFS{"a.yaml": {Data: []byte("key: [unclosed")}}, "*.yaml")
	assert.ErrorContains(t, err, "failed to parse seed")

	_, err = catalog.LoadSeeds(fstest.MapFS{"a.toml": {Data: []byte("")}}, "*.toml")
	assert.ErrorContains(t, err, "unsupported seed format")
}
