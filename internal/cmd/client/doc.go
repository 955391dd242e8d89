// Package client provides the `plflow` command-line client.
//
// The CLI talks to the pl-flow HTTP endpoint to perform common task queue
// operations from a terminal. It is primarily intended for developers and
// operators.
//
// Installation
//
//	go install github.com/NexPlugs/pl-flow/cmd/plflow@latest
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it reads
// PLFLOW_HTTP and defaults to http://127.0.0.1:8080.
//
// Usage
//
//	plflow task submit --identity job-42 --topic echo --payload hello --wait
//
//	# fire and forget; a later submit with the same identity coalesces
//	plflow task submit --identity job-42 --topic sha256 --payload-b64 aGVsbG8=
//
//	plflow task remove --identity job-42
//	plflow task clear
//	plflow task stats
//	plflow task topics
//
//	# follow successful completions, optionally filtered server-side
//	plflow watch --filter 'topic == "echo"' --limit 10
//
//	# page through the durable completion journal
//	plflow journal read --limit 50
//	plflow journal read --after 0000019a2f3c... --limit 50
//
// Notes
//
//   - submit dedupes by identity: while an identity is pending, further
//     submits refresh its place in line and share the original result.
//   - watch shows successes only; failures surface on the waited submit.
package client
