// Package journal keeps a durable, append-only record of successfully
// completed tasks on top of Pebble.
//
// Each entry is keyed by a time-ordered 128-bit ID (pkg/id), so forward scans
// replay completions in the order they were recorded. The journal stores
// outcomes only; queued tasks are never persisted and do not survive a
// process restart.
//
// # Keyspace
//
//	jr/{name}/e/{id16} - entry (framed header + payload)
//	jr/{name}/m        - last assigned ID
package journal
