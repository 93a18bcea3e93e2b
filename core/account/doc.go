// Package account connects the libraries to a user's remote account.
//
// # Client
//
// Client speaks the account REST shape with Fiber's HTTP agent and a bearer
// token:
//
//	POST   /my/{kind}/        save one item
//	POST   /my/{kind}/batch   save many items
//	DELETE /my/{kind}/{id}    delete one item
//	GET    /my/{kind}/        list the account's listings
//	GET    /my/{kind}/{id}    fetch one item
//
// # Reconciliation
//
// After local storage is loaded, Reconciler pushes every local item the
// account has not seen at its current LastUpdateMs. BuildPlan lists the
// pushes, ApplyPlan sends them in batches once confirmed, and a ledger kept
// in the local store under LedgerNamespace stops items being sent twice.
package account
