package journal

import (
	"github.com/cockroachdb/pebble"

	"github.com/NexPlugs/pl-flow/pkg/id"
)

// ReadOptions selects a slice of the journal.
type ReadOptions struct {
	// After excludes entries with ID <= After. Zero starts at the beginning.
	After id.ID
	// Limit bounds the number of returned entries; 0 means no bound.
	Limit int
}

// Entry is one journaled completion.
type Entry struct {
	ID      id.ID
	Header  []byte
	Payload []byte
}

// Read returns up to Limit entries with IDs greater than After, ascending.
func (j *Journal) Read(opts ReadOptions) ([]Entry, error) {
	prefix := KeyEntryPrefix(j.name)
	hi := append(append([]byte{}, prefix...), 0xFF)
	iter, err := j.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: hi})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []Entry
	var zero id.ID
	ok := iter.First()
	if opts.After != zero {
		start := KeyEntry(j.name, opts.After)
		ok = iter.SeekGE(start)
		// SeekGE lands on After itself when present; skip it
		if ok {
			if eid, valid := entryID(iter.Key()); valid && eid == opts.After {
				ok = iter.Next()
			}
		}
	}
	for ; ok; ok = iter.Next() {
		eid, valid := entryID(iter.Key())
		if !valid {
			continue
		}
		header, payload, okDec := DecodeEntry(iter.Value())
		if !okDec {
			continue
		}
		entries = append(entries, Entry{ID: eid, Header: header, Payload: payload})
		if opts.Limit > 0 && len(entries) >= opts.Limit {
			break
		}
	}
	return entries, nil
}
