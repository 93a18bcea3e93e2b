// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application; this package only defines
// the settings it needs: listen port, API key and shutdown budget.
//
// # Usage
//
// This package is embedded by core/config and read by cmd/start.go.
package server
