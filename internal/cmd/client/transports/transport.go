package transports

import "context"

// SubmitResult is the settled outcome of a waited submission.
type SubmitResult struct {
	Identity string
	Topic    string
	Payload  []byte
}

// WatchEvent is one completion delivered on the success feed.
type WatchEvent struct {
	Identity string `json:"identity"`
	Topic    string `json:"topic"`
	Payload  []byte `json:"payload"`
	AtMs     int64  `json:"atMs"`
}

// WatchRequest describes a feed subscription.
type WatchRequest struct {
	// Filter is an optional server-side CEL expression.
	Filter string
	Buffer int
	// Limit stops the watch after N events (0 = infinite).
	Limit int
}

// Stats mirrors the server's runner counters.
type Stats struct {
	Pending   int   `json:"pending"`
	Running   int   `json:"running"`
	Submitted int64 `json:"submitted"`
	Coalesced int64 `json:"coalesced"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Expired   int64 `json:"expired"`
	Evicted   int64 `json:"evicted"`
	Removed   int64 `json:"removed"`
}

// JournalEntry is one journaled completion as returned by the server.
type JournalEntry struct {
	ID       string `json:"id"`
	Identity string `json:"identity"`
	Topic    string `json:"topic"`
	Payload  []byte `json:"payload"`
	AtMs     int64  `json:"atMs"`
}

// TasksTransport abstracts the wire protocol used by the CLI.
type TasksTransport interface {
	Submit(ctx context.Context, identity, topic string, payload []byte) error
	SubmitWait(ctx context.Context, identity, topic string, payload []byte) (SubmitResult, error)
	Remove(ctx context.Context, identity string) (bool, error)
	Clear(ctx context.Context) error
	GetStats(ctx context.Context) (Stats, error)
	Topics(ctx context.Context) ([]string, error)
	Watch(ctx context.Context, req WatchRequest, onEvent func(WatchEvent) error) error
	ReadJournal(ctx context.Context, after string, limit int) ([]JournalEntry, error)
}
