package tasksvc

import "context"

// Task is one unit of submitted work as seen by a topic handler.
type Task struct {
	Identity string
	Topic    string
	Payload  []byte
}

// Result is what a handler produces on success.
type Result struct {
	Topic   string `json:"topic"`
	Payload []byte `json:"payload,omitempty"`
}

// Handler executes every task submitted under one topic.
type Handler func(ctx context.Context, task Task) (Result, error)

// Completion is one successful task outcome as delivered to subscribers.
type Completion struct {
	Identity string `json:"identity"`
	Topic    string `json:"topic"`
	Payload  []byte `json:"payload,omitempty"`
	AtMs     int64  `json:"atMs"`
}
