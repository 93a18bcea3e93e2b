// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports development and
// production settings and integrates with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it
// to the log entry. ForKind scopes a logger to one library (stat blocks,
// spells, ...) so background persistence failures can be traced to a kind.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
package logger
