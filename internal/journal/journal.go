package journal

import (
	"context"
	"sync"
	"time"

	pebblestore "github.com/NexPlugs/pl-flow/internal/storage/pebble"
	"github.com/NexPlugs/pl-flow/pkg/id"
)

// Record is one appendable completion.
type Record struct {
	Header  []byte
	Payload []byte
}

// Journal provides append-only operations for one named completion log.
type Journal struct {
	db   *pebblestore.DB
	name string
	gen  *id.Generator

	mu       sync.Mutex
	lastID   id.ID
	notifyCh chan struct{}
}

// Open initializes a Journal and loads the last assigned ID from metadata if
// present.
func Open(db *pebblestore.DB, name string) (*Journal, error) {
	j := &Journal{
		db:       db,
		name:     name,
		gen:      id.NewGenerator(),
		notifyCh: make(chan struct{}),
	}
	if meta, err := db.Get(KeyMeta(name)); err == nil && len(meta) == 16 {
		copy(j.lastID[:], meta)
	}
	return j, nil
}

// Name returns the journal name.
func (j *Journal) Name() string { return j.name }

// LastID returns the most recently assigned entry ID (zero if empty).
func (j *Journal) LastID() id.ID {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastID
}

// Append writes the provided records as one atomic batch and returns their
// assigned IDs.
func (j *Journal) Append(ctx context.Context, recs []Record) ([]id.ID, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	b := j.db.NewBatch()
	defer b.Close()

	ids := make([]id.ID, len(recs))
	for i, r := range recs {
		eid := j.gen.Next()
		if err := b.Set(KeyEntry(j.name, eid), EncodeEntry(r.Header, r.Payload), nil); err != nil {
			return nil, err
		}
		ids[i] = eid
		j.lastID = eid
	}
	if err := b.Set(KeyMeta(j.name), j.lastID.Bytes(), nil); err != nil {
		return nil, err
	}
	if err := j.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}

	// wake blocked readers
	close(j.notifyCh)
	j.notifyCh = make(chan struct{})
	return ids, nil
}

// WaitForAppend blocks until a new append occurs or timeout elapses. It
// returns true if woken by an append, false on timeout.
func (j *Journal) WaitForAppend(timeout time.Duration) bool {
	j.mu.Lock()
	ch := j.notifyCh
	j.mu.Unlock()
	if timeout <= 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
