package runner

import (
	"errors"
	"fmt"
)

// RemoveReason distinguishes why an entry settled with a RemovedError.
type RemoveReason string

const (
	// ReasonQueueFull marks entries evicted to keep the pending registry
	// under the configured capacity.
	ReasonQueueFull RemoveReason = "queue full"
	// ReasonRemoved marks entries dropped by an explicit Remove call.
	ReasonRemoved RemoveReason = "removed"
	// ReasonCleared marks entries dropped by Clear or Close.
	ReasonCleared RemoveReason = "cleared"
)

// RemovedError settles entries that were evicted, removed, or cleared before
// their work ran.
type RemovedError struct {
	Identity any
	Reason   RemoveReason
}

func (e *RemovedError) Error() string {
	return fmt.Sprintf("runner: task %v removed: %s", e.Identity, e.Reason)
}

// TimedOutError settles entries whose age exceeded the time-to-live while
// pending.
type TimedOutError struct {
	Identity any
}

func (e *TimedOutError) Error() string {
	return fmt.Sprintf("runner: task %v timed out", e.Identity)
}

// IsRemoved reports whether err (or anything it wraps) is a RemovedError.
func IsRemoved(err error) bool {
	var re *RemovedError
	return errors.As(err, &re)
}

// IsTimedOut reports whether err (or anything it wraps) is a TimedOutError.
func IsTimedOut(err error) bool {
	var te *TimedOutError
	return errors.As(err, &te)
}

// ErrUnresolved is returned by Handle.Result before the handle settles.
var ErrUnresolved = errors.New("runner: handle not resolved")
