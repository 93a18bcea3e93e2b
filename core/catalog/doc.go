// Package catalog serves and publishes the bundled, read-only item catalog.
//
// The catalog holds the stat blocks and spells every user starts with. It is
// published to object storage as one index per kind plus one object per item:
//
//	catalog/statblocks/index.json   -> []library.ListingMeta
//	catalog/statblocks/<id>.json    -> full item
//
// # Sources
//
// BucketSource reads those objects directly. HTTPSource reads them from the
// catalog routes of another running instance. A catalog that was never
// published is reported as zero listings, not as an error.
//
// # Publishing
//
// LoadSeeds collects JSON or YAML seed files with doublestar globs, and
// Publisher writes them to the bucket, optionally pruning stale items.
package catalog
