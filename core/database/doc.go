// Package database opens the relational store that backs the local library.
//
// It wraps GORM and picks the dialector from the configured driver: SQLite
// for a single-user file (or ":memory:" in tests) and MySQL for a shared
// deployment.
//
// # Connect
//
// Connect opens and pings the database. Failure is expected to be handled by
// the caller, which falls back to the in-memory store.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns report the live columns of a table so the
// store can verify that library_items carries the layout it writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("database unavailable, using memory store", zap.Error(err))
//	}
package database
