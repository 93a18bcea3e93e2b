// Package libraries wires one Library per item kind to the shared store,
// catalog and account, and exposes them over HTTP.
//
// # Bootstrap
//
// Bootstrap.Run loads the server catalog, local storage and account
// listings of every kind concurrently. Once every local load has finished,
// local items the account has not seen are pushed in batches. Failures are
// recorded per kind in the Report and logged; they never abort the run.
//
// # Routes
//
//	GET /libraries/sync          last bootstrap report
//	GET /libraries/:kind         listings (?q=, ?filter.<dim>=, ?group=)
//	GET /libraries/:kind/:id     full item (?refresh=true)
//	PUT /libraries/:kind/:id     save a full item
//	DELETE /libraries/:kind/:id  remove an item
//	PATCH /libraries/persistentcharacters/:id  partial character update
package libraries
