// Package state holds the roster list and its optimistic transitions.
//
// # Overview
//
// The Store is the local cache of the remote users collection plus the small
// amount of UI state around it: which record is being edited and its draft
// name, the single visible error message and whether a load is in flight.
//
// # Optimistic Mutations
//
// Every mutation follows the same shape:
//
//	cp := store.Delete(id)          // list changes immediately
//	err := client.Delete(ctx, id)   // request runs afterwards
//	if err != nil {
//		store.Fail(cp, err)         // list returns to cp, error surfaced
//	}
//
// Create, Delete and ConfirmEdit each hand back a Checkpoint taken before the
// change. Fail restores exactly that list, discarding anything that happened
// to the list in between.
//
// # Cancellation
//
// Errors matching users.ErrCanceled are dropped: FinishLoad and Fail leave the
// state as it was.
//
// # Concurrency Model
//
// The Store has no locks. It is only touched from Bubble Tea's Update, which
// runs on a single goroutine; network calls report back as messages.
package state
