// Package items defines the content kinds stored in the libraries: stat
// blocks, spells, saved encounters and persistent characters.
//
// # Kinds
//
// Kind is an enum; Kind.Config maps it to its URL slug, display name, local
// storage namespace and server catalog path. Nothing is looked up by a free
// string except ParseKind at the HTTP edge.
//
// # Extractors
//
// Each type has a Default constructor plus pure SearchHint and
// FilterDimensions functions that a library.Library uses to derive listing
// metadata.
//
// # Partial Updates
//
// PersistentCharacterUpdate carries pointer fields; Apply writes only the set
// ones, and LinkStatBlock keeps Name, Path and Version in step with a new
// stat block.
package items
