package journal

import (
	"bytes"
	"context"
	"testing"
	"time"

	pebblestore "github.com/NexPlugs/pl-flow/internal/storage/pebble"
	"github.com/NexPlugs/pl-flow/pkg/id"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	j, err := Open(db, "completions")
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	return j
}

func TestAppendAssignsOrderedIDs(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	ids, err := j.Append(ctx, []Record{
		{Header: []byte("h1"), Payload: []byte("p1")},
		{Header: []byte("h2"), Payload: []byte("p2")},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("want 2 ids, got %d", len(ids))
	}
	if ids[0].Compare(ids[1]) >= 0 {
		t.Fatalf("ids must ascend")
	}
	if j.LastID() != ids[1] {
		t.Fatalf("last id not tracked")
	}
}

func TestReadAfter(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	var ids []id.ID
	for _, p := range []string{"a", "b", "c"} {
		got, err := j.Append(ctx, []Record{{Payload: []byte(p)}})
		if err != nil {
			t.Fatalf("append %s: %v", p, err)
		}
		ids = append(ids, got[0])
	}

	all, err := j.Read(ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(all) != 3 || !bytes.Equal(all[0].Payload, []byte("a")) {
		t.Fatalf("full read: %v", all)
	}

	tail, err := j.Read(ReadOptions{After: ids[0]})
	if err != nil {
		t.Fatalf("read after: %v", err)
	}
	if len(tail) != 2 || !bytes.Equal(tail[0].Payload, []byte("b")) {
		t.Fatalf("after read: %v", tail)
	}

	limited, err := j.Read(ReadOptions{Limit: 1})
	if err != nil {
		t.Fatalf("read limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit read: %v", limited)
	}
}

func TestEntryFrameRejectsCorruption(t *testing.T) {
	framed := EncodeEntry([]byte("h"), []byte("payload"))
	if _, _, ok := DecodeEntry(framed); !ok {
		t.Fatalf("valid frame rejected")
	}
	framed[len(framed)-1] ^= 0xFF
	if _, _, ok := DecodeEntry(framed); ok {
		t.Fatalf("corrupted frame accepted")
	}
	if _, _, ok := DecodeEntry([]byte{0x01}); ok {
		t.Fatalf("truncated frame accepted")
	}
}

func TestTrimOlderThan(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	now := int64(1_000_000)
	id.NowMs = func() int64 { return now }
	defer func() { id.NowMs = func() int64 { return time.Now().UnixMilli() } }()

	if _, err := j.Append(ctx, []Record{{Payload: []byte("old")}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	now += 10_000
	if _, err := j.Append(ctx, []Record{{Payload: []byte("new")}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	deleted, err := j.TrimOlderThan(ctx, time.UnixMilli(1_005_000), 0)
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted %d, want 1", deleted)
	}
	left, err := j.Read(ReadOptions{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(left) != 1 || !bytes.Equal(left[0].Payload, []byte("new")) {
		t.Fatalf("surviving entries: %v", left)
	}
}

func TestWaitForAppend(t *testing.T) {
	j := openTestJournal(t)

	if j.WaitForAppend(10 * time.Millisecond) {
		t.Fatalf("wait should time out with no appends")
	}

	done := make(chan bool, 1)
	go func() { done <- j.WaitForAppend(2 * time.Second) }()
	time.Sleep(10 * time.Millisecond)
	if _, err := j.Append(context.Background(), []Record{{Payload: []byte("x")}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	select {
	case woke := <-done:
		if !woke {
			t.Fatalf("reader timed out instead of waking")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("reader never woke")
	}
}
