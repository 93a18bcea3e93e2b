// Package store persists library items locally.
//
// Items are JSON documents keyed by (namespace, id). GormStore writes them to
// the library_items table through GORM (SQLite or MySQL); Memory keeps them
// in process and is the fallback when the database cannot be opened.
//
// # Id Assignment
//
// LoadAll gives every item without an Id one (its storage key, or a new
// UUID) and writes the assignment back, so the same item keeps the same Id
// on the next start.
//
// # Fetching
//
// AsFetcher adapts a Store to library.Fetcher so listings whose Link is a
// namespace load their full item from here.
package store
