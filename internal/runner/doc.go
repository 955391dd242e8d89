// Package runner implements a coalescing, bounded, expiring task runner.
//
// Callers submit identifiable units of asynchronous work. Submissions that
// share an identity coalesce onto a single pending entry and observe one
// shared result handle; the underlying work executes at most once per entry.
// The runner caps how many tasks run at the same time, caps how many entries
// may wait, and expires entries left untouched past a time-to-live.
//
// # Lifecycle
//
// An entry is pending (registered and ordered by last-touched time), running
// (identity held in the running set, no longer registered), or settled (its
// handle resolved). Dispatch always picks the oldest eligible pending entry;
// re-submitting an identity refreshes its timestamp and moves it to the back
// of the line. Expiry and capacity eviction happen as a side effect of
// submission and dispatch, never on a timer of their own.
//
// # Failure delivery
//
// Evicted, expired, removed, and cleared entries settle with typed errors
// (RemovedError, TimedOutError). A failing work function settles its handle
// with the original error, unwrapped. Handles resolve exactly once; late
// completions after Clear are delivered nowhere and corrupt nothing.
//
// A subscription feed publishes the value of every successfully completed
// task for observers that want a side channel independent of handles.
package runner
