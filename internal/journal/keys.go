package journal

import "github.com/NexPlugs/pl-flow/pkg/id"

// Pebble keys, lexicographically sortable by entry ID.

var (
	jrPrefix   = []byte("jr/")
	entrySeg   = []byte("/e/")
	metaSuffix = []byte("/m")
)

// KeyEntry builds the key for one journal entry.
func KeyEntry(name string, eid id.ID) []byte {
	k := make([]byte, 0, len(jrPrefix)+len(name)+len(entrySeg)+16)
	k = append(k, jrPrefix...)
	k = append(k, name...)
	k = append(k, entrySeg...)
	k = append(k, eid[:]...)
	return k
}

// KeyEntryPrefix returns the common prefix of all entry keys for a journal.
func KeyEntryPrefix(name string) []byte {
	k := make([]byte, 0, len(jrPrefix)+len(name)+len(entrySeg))
	k = append(k, jrPrefix...)
	k = append(k, name...)
	k = append(k, entrySeg...)
	return k
}

// KeyMeta builds the journal metadata key.
func KeyMeta(name string) []byte {
	k := make([]byte, 0, len(jrPrefix)+len(name)+len(metaSuffix))
	k = append(k, jrPrefix...)
	k = append(k, name...)
	k = append(k, metaSuffix...)
	return k
}

// entryID extracts the ID suffix from an entry key.
func entryID(key []byte) (id.ID, bool) {
	var eid id.ID
	if len(key) < 16 {
		return eid, false
	}
	copy(eid[:], key[len(key)-16:])
	return eid, true
}
