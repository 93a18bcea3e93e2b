// Package utils provides loose value conversion helpers.
//
// Items stored locally or returned by remote services are sometimes decoded
// into untyped maps (for example while assigning missing identifiers). JSON
// numbers then arrive as float64 and older records may carry timestamps as
// strings; these helpers normalise such values without failing.
package utils
