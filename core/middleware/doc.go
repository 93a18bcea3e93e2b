// Package middleware groups the fiber middleware used by the service.
//
//   - auth: API key check on every protected route.
//   - rayid: per-request id stored in the context locals and echoed in the
//     X-Ray-ID response header, picked up by logger.WithRayID.
package middleware
