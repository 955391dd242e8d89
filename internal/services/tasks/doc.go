// Package tasksvc exposes the coalescing task runner as a service: topics map
// to registered handlers, submissions dedupe by identity, and successful
// completions fan out to filtered subscribers and an optional durable journal.
package tasksvc
