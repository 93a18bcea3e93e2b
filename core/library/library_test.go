package library_test

import (
	"context"
	"testing"

	"improved-initiative/core/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meta(id string, ts int64) library.ListingMeta {
	return library.ListingMeta{ID: id, Name: "N-" + id, Link: "/notes/", LastUpdateMs: ts}
}

func TestAddListings_Idempotent(t *testing.T) {
	f := newFixture()
	batch := []library.ListingMeta{meta("a", 10), meta("b", 20)}

	notifications := 0
	f.lib.Subscribe(func([]*library.Listing[note]) { notifications++ })

	f.lib.AddListings(batch, library.SourceServer)
	first := f.lib.GetListings()
	f.lib.AddListings(batch, library.SourceServer)

	assert.Equal(t, first, f.lib.GetListings())
	assert.Equal(t, 1, notifications)

	f.lib.AddListings(batch, library.SourceAccount)
	f.lib.AddListings(batch, library.SourceAccount)
	assert.Equal(t, 2, notifications)
	assert.Equal(t, library.SourceAccount, f.lib.GetListings()[0].Origin())
}

func TestAddListings_OrderIndependent(t *testing.T) {
	older := meta("s1", 50)
	older.Name = "Local"
	newer := meta("s1", 100)
	newer.Name = "Server"

	for _, order := range [][]library.ListingMeta{{older, newer}, {newer, older}} {
		f := newFixture()
		f.lib.AddListings(order[:1], library.SourceLocal)
		f.lib.AddListings(order[1:], library.SourceServer)

		listings := f.lib.GetListings()
		require.Len(t, listings, 1)
		assert.Equal(t, int64(100), listings[0].Meta().LastUpdateMs)
		assert.Equal(t, "Server", listings[0].Meta().Name)
	}
}

func TestAddListings_TieBreak(t *testing.T) {
	existing := meta("x", 10)
	existing.Name = "existing"
	incoming := meta("x", 10)
	incoming.Name = "incoming"

	tests := []struct {
		source library.Source
		want   string
	}{
		{library.SourceAccount, "incoming"},
		{library.SourceServer, "existing"},
		{library.SourceLocal, "existing"},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			f := newFixture()
			f.lib.AddListings([]library.ListingMeta{existing}, library.SourceLocal)
			f.lib.AddListings([]library.ListingMeta{incoming}, tt.source)
			assert.Equal(t, tt.want, f.lib.GetListings()[0].Meta().Name)
		})
	}
}

func TestAddListings_CachedItemNeedsStrictlyNewer(t *testing.T) {
	f := newFixture()
	f.fetcher.body["/notes/x"] = `{"Body":"cached"}`
	f.lib.AddListings([]library.ListingMeta{meta("x", 10)}, library.SourceLocal)

	listing := f.lib.GetListings()[0]
	listing.GetWithTemplate(context.Background(), defaultNote())
	require.True(t, listing.Cached())

	tie := meta("x", 10)
	tie.Name = "account copy"
	f.lib.AddListings([]library.ListingMeta{tie}, library.SourceAccount)
	assert.Equal(t, "N-x", listing.Meta().Name)
	assert.True(t, listing.Cached())

	f.lib.AddListings([]library.ListingMeta{meta("x", 11)}, library.SourceServer)
	assert.Equal(t, int64(11), listing.Meta().LastUpdateMs)
	assert.False(t, listing.Cached())
}

func TestAddListings_SkipsEmptyID(t *testing.T) {
	f := newFixture()
	f.lib.AddListings([]library.ListingMeta{meta("", 1), meta("a", 1)}, library.SourceServer)
	assert.Equal(t, []string{"a"}, ids(f.lib.GetListings()))
}

func TestAddListings_NotifiesListingSubscribers(t *testing.T) {
	f := newFixture()
	listing := f.lib.GetOrCreateListingByID("x")

	var seen []int64
	unsubscribe := listing.Subscribe(func(m library.ListingMeta) { seen = append(seen, m.LastUpdateMs) })

	f.lib.AddListings([]library.ListingMeta{meta("x", 5)}, library.SourceServer)
	unsubscribe()
	f.lib.AddListings([]library.ListingMeta{meta("x", 6)}, library.SourceServer)

	assert.Equal(t, []int64{5}, seen)
}

func TestGetOrCreateListingByID(t *testing.T) {
	f := newFixture()

	listing := f.lib.GetOrCreateListingByID("new-id")
	listings := f.lib.GetListings()
	require.Len(t, listings, 1)

	m := listings[0].Meta()
	assert.Equal(t, "new-id", m.ID)
	assert.Equal(t, int64(0), m.LastUpdateMs)
	assert.Equal(t, "Note", m.Name)
	assert.Equal(t, "Notes", m.Link)
	assert.Same(t, listing, f.lib.GetOrCreateListingByID("new-id"))

	generated := f.lib.GetOrCreateListingByID("")
	assert.NotEmpty(t, generated.Meta().ID)
}

func TestGetOrCreateListingByID_ProvisionalPopulatedByNewer(t *testing.T) {
	f := newFixture()
	listing := f.lib.GetOrCreateListingByID("pc")
	assert.True(t, listing.Provisional())

	f.lib.AddListings([]library.ListingMeta{meta("pc", 1)}, library.SourceLocal)

	assert.Equal(t, "N-pc", f.lib.GetListings()[0].Meta().Name)
	assert.False(t, listing.Provisional())
}

func TestProvisional_ClearedByEditOnly(t *testing.T) {
	f := newFixture()
	f.lib.AddListings([]library.ListingMeta{meta("legacy", 0)}, library.SourceLocal)
	assert.False(t, f.lib.GetListings()[0].Provisional())

	listing := f.lib.GetOrCreateListingByID("fresh")
	listing.Invalidate()
	assert.True(t, listing.Provisional())

	f.lib.SaveEditedListing(listing, defaultNote())
	assert.False(t, listing.Provisional())
}

func TestDeleteListing(t *testing.T) {
	f := newFixture()
	f.lib.AddListings([]library.ListingMeta{meta("a", 10), meta("b", 20)}, library.SourceLocal)

	notifications := 0
	f.lib.Subscribe(func([]*library.Listing[note]) { notifications++ })

	f.lib.DeleteListing("a")
	f.lib.DeleteListing("missing")
	f.runner.Wait()

	assert.Equal(t, []string{"b"}, ids(f.lib.GetListings()))
	assert.Equal(t, 1, notifications)
	assert.Equal(t, []string{"delete:a"}, f.store.ops())
	assert.Equal(t, []string{"a"}, f.accountDeleted)

	recreated := f.lib.GetOrCreateListingByID("a")
	assert.Equal(t, int64(0), recreated.Meta().LastUpdateMs)
	assert.Equal(t, "Note", recreated.Meta().Name)
}

func TestSaveEditedListing(t *testing.T) {
	f := newFixture()
	listing := f.lib.GetOrCreateListingByID("n1")

	var seen []*library.Listing[note]
	f.lib.Subscribe(func(l []*library.Listing[note]) { seen = l })

	edited := defaultNote()
	edited.Name = "Shopping"
	edited.Path = "Lists"
	edited.Body = "milk eggs"
	edited.Pinned = true
	f.lib.SaveEditedListing(listing, edited)

	m := listing.Meta()
	assert.Equal(t, "n1", m.ID)
	assert.Equal(t, "Shopping", m.Name)
	assert.Equal(t, "Lists", m.Path)
	assert.Equal(t, "milk eggs", m.SearchHint)
	assert.Equal(t, library.FilterDimensions{"Pinned": "yes"}, m.FilterDimensions)
	assert.Equal(t, "Notes", m.Link)
	assert.Equal(t, int64(1_000), m.LastUpdateMs)
	assert.Equal(t, library.SourceLocal, listing.Origin())
	require.Len(t, seen, 1)

	item := listing.GetWithTemplate(context.Background(), defaultNote())
	assert.Equal(t, "milk eggs", item.Body)
	assert.Equal(t, "n1", item.Id)
	assert.Equal(t, int32(0), f.fetcher.calls.Load())

	f.runner.Wait()
	assert.Equal(t, []string{"save:n1"}, f.store.ops())
	require.Len(t, f.accountSaved, 1)
	assert.Equal(t, int64(1_000), f.accountSaved[0].LastUpdateMs)
}

func TestSaveEditedListing_TimestampOnlyIncreases(t *testing.T) {
	f := newFixture()
	f.lib.AddListings([]library.ListingMeta{meta("n1", 5_000)}, library.SourceServer)
	listing := f.lib.GetListings()[0]

	f.lib.SaveEditedListing(listing, defaultNote())
	assert.Equal(t, int64(5_001), listing.Meta().LastUpdateMs)

	f.lib.SaveEditedListing(listing, defaultNote())
	assert.Equal(t, int64(5_002), listing.Meta().LastUpdateMs)
}

func TestSaveEditedListing_AfterConcurrentDelete(t *testing.T) {
	f := newFixture()
	listing := f.lib.GetOrCreateListingByID("n1")
	f.lib.DeleteListing("n1")

	f.lib.SaveEditedListing(listing, defaultNote())
	f.runner.Wait()

	assert.Equal(t, []string{"n1"}, ids(f.lib.GetListings()))
	assert.Equal(t, []string{"delete:n1", "save:n1"}, f.store.ops())
}

func TestSaveEditedListing_PersistenceFailureKeepsMemory(t *testing.T) {
	f := newFixture()
	f.store.err = assert.AnError
	listing := f.lib.GetOrCreateListingByID("n1")

	edited := defaultNote()
	edited.Body = "kept"
	f.lib.SaveEditedListing(listing, edited)
	f.runner.Wait()

	assert.Equal(t, "kept", listing.GetWithTemplate(context.Background(), defaultNote()).Body)
}

func TestListingsFrom(t *testing.T) {
	f := newFixture()
	f.lib.AddListings([]library.ListingMeta{meta("s", 1)}, library.SourceServer)
	f.lib.AddListings([]library.ListingMeta{meta("l", 1)}, library.SourceLocal)
	f.lib.AddListings([]library.ListingMeta{meta("a", 1)}, library.SourceAccount)

	assert.Equal(t, []string{"l"}, ids(f.lib.ListingsFrom(library.SourceLocal)))
	assert.Equal(t, []string{"a"}, ids(f.lib.ListingsFrom(library.SourceAccount)))
}

func TestMetaFor(t *testing.T) {
	f := newFixture()
	n := defaultNote()
	n.Id, n.Name, n.LastUpdateMs, n.Body = "x", "X", 9, "hint"

	m := f.lib.MetaFor(n, "Notes")
	assert.Equal(t, library.ListingMeta{
		ID: "x", Name: "X", SearchHint: "hint", Link: "Notes", LastUpdateMs: 9,
		FilterDimensions: library.FilterDimensions{"Pinned": "no"},
	}, m)
}
