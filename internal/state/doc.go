// Package state holds the borrowing snapshot shared between refresh commands
// and the UI.
//
// # Overview
//
// Refreshes run as Bubble Tea commands on their own goroutines while the UI
// renders from the last good snapshot. The Store is the coordination point:
// refreshes write results into it, rendering reads copies out of it.
//
//	Refresh (command goroutine):      UI (event loop):
//	┌─────────────────────┐          ┌──────────────────┐
//	│ seq := store.Begin()│          │                  │
//	│ fetch records, fine │          │                  │
//	│ store.Commit(seq,r) │─────────→│ store.Snapshot() │
//	│  or Fail(seq, err)  │ (mutex)  │ render           │
//	└─────────────────────┘          └──────────────────┘
//
// # Sequencing
//
// Refreshes can overlap: a return action can race a search, or the user can
// cycle data sources faster than the backend answers. Each refresh takes a
// sequence number from Begin before it issues any request. Commit and Fail
// accept only the most recently issued number; anything older returns
// ErrStale and leaves the snapshot untouched. The data on screen therefore
// always belongs to the last refresh the user asked for, regardless of the
// order in which responses arrive.
//
// # Update Semantics
//
//	// Success: replace records wholesale
//	store.Commit(seq, state.Result{Records: recs, TotalFine: fine, HasFine: true})
//	→ snapshot.Records = recs
//	→ snapshot.LastError = nil
//
//	// Failure: keep old data, record error
//	store.Fail(seq, err)
//	→ snapshot.Records = <unchanged>
//	→ snapshot.LastError = err
//
// A Result without HasFine keeps the previous total fine, so a failed fine
// lookup does not blank the figure already on screen.
//
// # Defensive Copying
//
// Records and return dates are cloned on the way in and on the way out, and
// errors are re-wrapped, so the UI can never mutate stored state.
//
// The zero Store is ready to use.
package state
