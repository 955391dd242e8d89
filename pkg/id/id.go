package id

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math"
	"sync"
	"time"
)

// ID is a 128-bit, lexicographically sortable identifier: 8 bytes of
// big-endian millisecond timestamp followed by 8 bytes of sequence.
type ID [16]byte

// ErrInvalid reports a malformed textual ID.
var ErrInvalid = errors.New("id: invalid")

// Bytes returns the raw 16-byte representation.
func (i ID) Bytes() []byte {
	b := make([]byte, 16)
	copy(b, i[:])
	return b
}

// String returns the 32-character hex form.
func (i ID) String() string { return hex.EncodeToString(i[:]) }

// Time returns the embedded timestamp.
func (i ID) Time() time.Time {
	ms := int64(binary.BigEndian.Uint64(i[0:8]))
	return time.UnixMilli(ms)
}

// Seq returns the embedded per-millisecond sequence.
func (i ID) Seq() uint64 { return binary.BigEndian.Uint64(i[8:16]) }

// Compare returns -1, 0, or 1 based on lexical comparison.
func (i ID) Compare(other ID) int {
	for idx := 0; idx < 16; idx++ {
		if i[idx] < other[idx] {
			return -1
		}
		if i[idx] > other[idx] {
			return 1
		}
	}
	return 0
}

// Parse decodes the 32-character hex form produced by String.
func Parse(s string) (ID, error) {
	var id ID
	if len(s) != 32 {
		return id, ErrInvalid
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, ErrInvalid
	}
	copy(id[:], b)
	return id, nil
}

// FromParts assembles an ID from a millisecond timestamp and sequence.
func FromParts(ms int64, seq uint64) ID {
	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(ms))
	binary.BigEndian.PutUint64(id[8:16], seq)
	return id
}

// NowMs returns current time in milliseconds since the Unix epoch. Tests may
// replace it.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Generator produces monotonically increasing IDs per process.
type Generator struct {
	mu       sync.Mutex
	lastMs   int64
	sequence uint64
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator { return &Generator{} }

// Next returns a new ID strictly greater than any previously returned one.
// A clock regression reuses the last observed millisecond; sequence overflow
// within one millisecond waits for the clock to advance.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := NowMs()
	if ms < g.lastMs {
		ms = g.lastMs
	}

	switch {
	case ms != g.lastMs:
		g.sequence = 0
	case g.sequence == math.MaxUint64:
		for ms <= g.lastMs {
			time.Sleep(time.Millisecond / 8)
			ms = NowMs()
		}
		g.sequence = 0
	default:
		g.sequence++
	}

	g.lastMs = ms
	return FromParts(ms, g.sequence)
}
