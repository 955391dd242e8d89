package runner

import (
	"context"
	"sync"
)

// Handle is a one-shot broadcast future shared by every caller that coalesced
// onto the same entry. It resolves exactly once, with either the work's value
// or a terminal error; later resolution attempts are no-ops.
type Handle[V any] struct {
	done chan struct{}

	mu      sync.Mutex
	settled bool
	val     V
	err     error
}

func newHandle[V any]() *Handle[V] {
	return &Handle[V]{done: make(chan struct{})}
}

// resolve settles the handle. It reports whether this call won; a handle that
// already settled is left untouched.
func (h *Handle[V]) resolve(val V, err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.settled {
		return false
	}
	h.val = val
	h.err = err
	h.settled = true
	close(h.done)
	return true
}

// Done returns a channel closed when the handle settles.
func (h *Handle[V]) Done() <-chan struct{} { return h.done }

// Settled reports whether the handle has resolved.
func (h *Handle[V]) Settled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settled
}

// Wait blocks until the handle settles or ctx is done. On settlement it
// returns the task outcome; on context cancellation it returns ctx.Err()
// without affecting the handle.
func (h *Handle[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-h.done:
		return h.val, h.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Result returns the settled outcome, or ErrUnresolved if the handle is still
// open.
func (h *Handle[V]) Result() (V, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.settled {
		var zero V
		return zero, ErrUnresolved
	}
	return h.val, h.err
}
