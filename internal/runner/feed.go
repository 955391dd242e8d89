package runner

import (
	"sync"
	"time"
)

// Completion is one successfully completed task as published on the feed.
// Failures never appear here; they are visible only through their handle.
type Completion[K comparable, V any] struct {
	Identity K
	Value    V
	At       time.Time
}

// Subscription is one observer's buffered view of the completion feed.
// A subscriber that falls behind loses events rather than stalling dispatch.
type Subscription[K comparable, V any] struct {
	id uint64
	ch chan Completion[K, V]

	once sync.Once
	stop func(uint64)
}

// C returns the channel completions are delivered on. It is closed by Close
// and when the runner shuts down.
func (s *Subscription[K, V]) C() <-chan Completion[K, V] { return s.ch }

// Close detaches the subscription from the feed. Safe to call more than once.
func (s *Subscription[K, V]) Close() {
	s.once.Do(func() { s.stop(s.id) })
}

// Subscribe attaches an observer to the completion feed. buffer is the number
// of completions that may queue before the subscriber starts losing events;
// values below 1 get a small default.
func (r *Runner[K, V]) Subscribe(buffer int) *Subscription[K, V] {
	if buffer < 1 {
		buffer = 16
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subSeq++
	sub := &Subscription[K, V]{
		id:   r.subSeq,
		ch:   make(chan Completion[K, V], buffer),
		stop: r.unsubscribe,
	}
	if r.closed {
		close(sub.ch)
		return sub
	}
	r.subs[sub.id] = sub
	return sub
}

func (r *Runner[K, V]) unsubscribe(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.subs[id]; ok {
		delete(r.subs, id)
		close(sub.ch)
	}
}

// publishLocked fans a completion out to every subscriber. Callers hold r.mu.
func (r *Runner[K, V]) publishLocked(c Completion[K, V]) {
	for _, sub := range r.subs {
		select {
		case sub.ch <- c:
		default:
			// subscriber buffer full; drop rather than block dispatch
		}
	}
}
