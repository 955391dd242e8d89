package runner

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

const (
	defaultMaxConcurrent = 1
	defaultMaxQueue      = 1024
)

// Work is the operation attached to an entry. It runs at most once, receives
// the runner's base context, and its error (if any) is forwarded to the
// entry's handle unchanged.
type Work[V any] func(ctx context.Context) (V, error)

// Options configures a Runner. All fields are fixed at construction.
type Options struct {
	// MaxConcurrent caps simultaneously-running tasks. Minimum 1.
	MaxConcurrent int
	// TTL expires pending entries left untouched longer than this.
	// Zero disables expiry.
	TTL time.Duration
	// MaxQueue caps the pending registry size. Admitting a new identity past
	// the cap evicts the oldest pending entries first. Minimum 1.
	MaxQueue int
	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

func (o *Options) normalize() {
	if o.MaxConcurrent < 1 {
		o.MaxConcurrent = defaultMaxConcurrent
	}
	if o.MaxQueue < 1 {
		o.MaxQueue = defaultMaxQueue
	}
	if o.TTL < 0 {
		o.TTL = 0
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// Stats is a snapshot of runner state and lifetime counters.
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

// Runner is a coalescing, bounded, expiring task runner. The zero value is
// not usable; construct with New.
type Runner[K comparable, V any] struct {
	opts Options

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	entries map[K]*entry[K, V]
	order   entryHeap[K, V]
	running map[K]struct{}
	seq     uint64
	subs    map[uint64]*Subscription[K, V]
	subSeq  uint64
	closed  bool
	stats   Stats
}

// New constructs a Runner with the given options.
func New[K comparable, V any](opts Options) *Runner[K, V] {
	opts.normalize()
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner[K, V]{
		opts:    opts,
		baseCtx: ctx,
		cancel:  cancel,
		entries: make(map[K]*entry[K, V]),
		running: make(map[K]struct{}),
		subs:    make(map[uint64]*Subscription[K, V]),
	}
}

// Submit queues work under the given identity and returns its handle without
// blocking. If the identity already has a pending entry the submission
// coalesces onto it: the entry's timestamp refreshes, it moves to the back of
// the dispatch order, and the existing handle is returned; the newly supplied
// work is discarded. Otherwise a fresh entry is admitted, evicting expired and
// over-capacity entries first.
func (r *Runner[K, V]) Submit(identity K, work Work[V]) *Handle[V] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		h := newHandle[V]()
		var zero V
		h.resolve(zero, &RemovedError{Identity: identity, Reason: ReasonCleared})
		return h
	}

	now := r.opts.Clock()

	if e, ok := r.entries[identity]; ok {
		e.touched = now
		e.refs++
		heap.Fix(&r.order, e.index)
		r.stats.Coalesced++
		r.dispatchLocked()
		return e.handle
	}

	r.expireLocked(now)
	for len(r.entries) >= r.opts.MaxQueue {
		r.evictOldestLocked()
	}

	r.seq++
	e := &entry[K, V]{
		identity: identity,
		work:     work,
		handle:   newHandle[V](),
		touched:  now,
		seq:      r.seq,
		refs:     1,
	}
	r.entries[identity] = e
	heap.Push(&r.order, e)
	r.stats.Submitted++

	r.dispatchLocked()
	return e.handle
}

// Remove cancels a pending entry. It returns false when the identity is
// running (in-flight work is never interrupted), unknown, or still referenced
// by other coalesced callers; in the referenced case one reference is
// released instead. On true, the entry's handle settles with a RemovedError.
func (r *Runner[K, V]) Remove(identity K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.running[identity]; ok {
		return false
	}
	e, ok := r.entries[identity]
	if !ok {
		return false
	}
	if e.refs > 1 {
		e.refs--
		return false
	}

	heap.Remove(&r.order, e.index)
	delete(r.entries, identity)
	r.stats.Removed++
	var zero V
	e.handle.resolve(zero, &RemovedError{Identity: identity, Reason: ReasonRemoved})
	return true
}

// Clear drops every pending entry, settling each handle with a RemovedError,
// and forgets all running identities. Tasks already in flight run to
// completion; their bookkeeping tolerates the missing running marker and
// their handles, already settled or not, behave as usual.
func (r *Runner[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *Runner[K, V]) clearLocked() {
	var zero V
	for identity, e := range r.entries {
		e.handle.resolve(zero, &RemovedError{Identity: identity, Reason: ReasonCleared})
	}
	r.entries = make(map[K]*entry[K, V])
	r.order = r.order[:0]
	r.running = make(map[K]struct{})
}

// Close clears all pending work, stops admitting new submissions, cancels the
// context handed to in-flight work, and closes all subscriptions. Submissions
// after Close settle immediately with a RemovedError.
func (r *Runner[K, V]) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.clearLocked()
	for id, sub := range r.subs {
		delete(r.subs, id)
		close(sub.ch)
	}
	r.mu.Unlock()
	r.cancel()
}

// Stats returns a snapshot of current sizes and lifetime counters.
func (r *Runner[K, V]) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.stats
	s.Pending = len(r.entries)
	s.Running = len(r.running)
	return s
}

// Len returns the number of pending entries.
func (r *Runner[K, V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// dispatchLocked fills free concurrency slots with the oldest eligible
// pending entries. An identity already running keeps its newer pending entry
// queued until the running one settles. Callers hold r.mu.
func (r *Runner[K, V]) dispatchLocked() {
	r.expireLocked(r.opts.Clock())

	var busy []*entry[K, V]
	for len(r.running) < r.opts.MaxConcurrent && r.order.Len() > 0 {
		e := heap.Pop(&r.order).(*entry[K, V])
		if _, ok := r.running[e.identity]; ok {
			busy = append(busy, e)
			continue
		}
		delete(r.entries, e.identity)
		r.running[e.identity] = struct{}{}
		go r.run(e)
	}
	for _, e := range busy {
		heap.Push(&r.order, e)
	}
}

// run executes one entry's work and settles its handle. It is the sole
// execution of that entry.
func (r *Runner[K, V]) run(e *entry[K, V]) {
	val, err := e.work(r.baseCtx)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, e.identity) // may already be gone after Clear

	if err != nil {
		r.stats.Failed++
		var zero V
		e.handle.resolve(zero, err)
	} else {
		r.stats.Completed++
		e.handle.resolve(val, nil)
		r.publishLocked(Completion[K, V]{Identity: e.identity, Value: val, At: r.opts.Clock()})
	}

	r.dispatchLocked()
}

// expireLocked settles pending entries whose age exceeds the TTL with a
// TimedOutError. The heap is ordered by last-touched time, so expired entries
// form its prefix. Callers hold r.mu.
func (r *Runner[K, V]) expireLocked(now time.Time) {
	if r.opts.TTL <= 0 {
		return
	}
	var zero V
	for r.order.Len() > 0 {
		oldest := r.order[0]
		if now.Sub(oldest.touched) <= r.opts.TTL {
			break
		}
		heap.Pop(&r.order)
		delete(r.entries, oldest.identity)
		r.stats.Expired++
		oldest.handle.resolve(zero, &TimedOutError{Identity: oldest.identity})
	}
}

// evictOldestLocked drops the single oldest pending entry to make room,
// settling it with a queue-full RemovedError. Callers hold r.mu and have
// checked the registry is non-empty.
func (r *Runner[K, V]) evictOldestLocked() {
	e := heap.Pop(&r.order).(*entry[K, V])
	delete(r.entries, e.identity)
	r.stats.Evicted++
	var zero V
	e.handle.resolve(zero, &RemovedError{Identity: e.identity, Reason: ReasonQueueFull})
}
