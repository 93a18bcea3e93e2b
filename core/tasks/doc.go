// Package tasks runs detached background work with retry.
//
// Library edits return as soon as memory is updated; writes to local storage
// and the account are queued here. A task key (namespace/id) serialises work
// on one item so a save followed by a delete cannot be reordered. Failed
// attempts are retried with exponential backoff and logged once the attempts
// run out.
//
// # Usage
//
//	r := tasks.NewRunner(tasks.Options{MaxAttempts: 3}, log)
//	r.Go("spells/fireball", func(ctx context.Context) error { return st.Save(ctx, "spells", "fireball", spell) })
//	r.Wait()
package tasks
