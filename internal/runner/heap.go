package runner

import "time"

// entry is one queued task: at most one per identity is registered at a time.
type entry[K comparable, V any] struct {
	identity K
	work     Work[V]
	handle   *Handle[V]

	// touched is refreshed on every coalesce and orders dispatch.
	touched time.Time
	// seq breaks timestamp ties by insertion order.
	seq uint64
	// refs counts claims on the entry: 1 at creation, +1 per coalesced
	// submission, -1 per non-final Remove call.
	refs int
	// index is the entry's current slot in the ordering heap.
	index int
}

// entryHeap orders pending entries by last-touched time, oldest first, and
// supports removal from the middle via the per-entry index. It implements
// container/heap.Interface.
type entryHeap[K comparable, V any] []*entry[K, V]

func (h entryHeap[K, V]) Len() int { return len(h) }

func (h entryHeap[K, V]) Less(i, j int) bool {
	if h[i].touched.Equal(h[j].touched) {
		return h[i].seq < h[j].seq
	}
	return h[i].touched.Before(h[j].touched)
}

func (h entryHeap[K, V]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap[K, V]) Push(x any) {
	e := x.(*entry[K, V])
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap[K, V]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
