package pebblestore

import (
	"context"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{
		DataDir:       t.TempDir(),
		Fsync:         FsyncModeInterval,
		FsyncInterval: 2 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCRUD(t *testing.T) {
	db := newTestDB(t)

	key := []byte("k1")
	if err := db.Set(key, []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := db.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v1" {
		t.Fatalf("got %q want v1", got)
	}
	if err := db.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Get(key); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestBatchAtomicity(t *testing.T) {
	db := newTestDB(t)

	b := db.NewBatch()
	if err := b.Set([]byte("a"), []byte("1"), nil); err != nil {
		t.Fatalf("batch set: %v", err)
	}
	if err := b.Set([]byte("b"), []byte("2"), nil); err != nil {
		t.Fatalf("batch set: %v", err)
	}
	if err := db.CommitBatch(context.Background(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()

	for _, k := range []string{"a", "b"} {
		if _, err := db.Get([]byte(k)); err != nil {
			t.Fatalf("get %q after batch: %v", k, err)
		}
	}
}

func TestParseFsyncMode(t *testing.T) {
	cases := map[string]FsyncMode{
		"":         FsyncModeAlways,
		"always":   FsyncModeAlways,
		"interval": FsyncModeInterval,
		"never":    FsyncModeNever,
	}
	for in, want := range cases {
		got, err := ParseFsyncMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseFsyncMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFsyncMode("bogus"); err == nil {
		t.Fatalf("expected error for bogus mode")
	}
}
