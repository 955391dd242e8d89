package journal

import (
	"context"
	"time"

	"github.com/cockroachdb/pebble"
)

// TrimOlderThan deletes entries recorded before cutoff. The entry ID embeds
// its timestamp, so no value decode is needed. Deletes are committed in
// batches of up to batchLimit keys. Returns the number of deleted entries.
func (j *Journal) TrimOlderThan(ctx context.Context, cutoff time.Time, batchLimit int) (int, error) {
	if batchLimit <= 0 {
		batchLimit = 1024
	}
	prefix := KeyEntryPrefix(j.name)
	hi := append(append([]byte{}, prefix...), 0xFF)
	iter, err := j.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: hi})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	deleted := 0
	ok := iter.First()
	for ok {
		b := j.db.NewBatch()
		n := 0
		for ok && n < batchLimit {
			eid, valid := entryID(iter.Key())
			if !valid || !eid.Time().Before(cutoff) {
				ok = false
				break
			}
			if err := b.Delete(iter.Key(), nil); err != nil {
				b.Close()
				return deleted, err
			}
			deleted++
			n++
			ok = iter.Next()
		}
		if n > 0 {
			if err := j.db.CommitBatch(ctx, b); err != nil {
				b.Close()
				return deleted, err
			}
		}
		b.Close()
	}
	if deleted >= 4096 {
		// compaction hint after a large trim
		_ = j.db.CompactRange(prefix, hi)
	}
	return deleted, nil
}
