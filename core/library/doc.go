// Package library reconciles item listings arriving from several sources
// into one queryable collection per item kind.
//
// # Listings
//
// A Listing pairs searchable metadata (ListingMeta) with a lazily loaded
// full item. GetWithTemplate fetches the item from the backend named by the
// metadata Link, decodes it over a default so missing fields keep their
// defaults, and caches it. Concurrent first reads share a single fetch.
// A failed read yields the default carrying the known metadata.
//
// # Reconciliation
//
// AddListings accepts batches tagged with a Source. For an id already known,
// the listing with the greater LastUpdateMs wins. Ties keep the existing
// listing unless the batch comes from the account. A listing whose item is
// already loaded is only replaced by strictly newer data. The final state is
// the same whatever order the batches arrive in.
//
// # Edits
//
// SaveEditedListing and DeleteListing update memory first, notify, and then
// hand local storage and account calls to a Runner. Persistence failures
// never roll memory back.
//
// # Notifications
//
// Library.Subscribe and Listing.Subscribe callbacks run synchronously after a
// mutation completes, outside of any lock.
//
// # Usage
//
//	lib := library.New(library.Config[items.Spell]{
//	    Kind:      "spells",
//	    Namespace: "spells",
//	    Default:   items.DefaultSpell,
//	    Fetcher:   router,
//	})
//	lib.AddListings(metas, library.SourceServer)
//	spell := lib.GetOrCreateListingByID("fireball").GetWithTemplate(ctx, items.DefaultSpell())
package library
