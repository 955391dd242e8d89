package id

import (
	"testing"
	"time"
)

func TestOrderingMonotonic(t *testing.T) {
	g := NewGenerator()
	NowMs = func() int64 { return 1000 }
	defer func() { NowMs = func() int64 { return time.Now().UnixMilli() } }()

	a := g.Next()
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("expected a<b")
	}
}

func TestClockRegressionGuard(t *testing.T) {
	g := NewGenerator()
	now := int64(1000)
	NowMs = func() int64 { return now }
	defer func() { NowMs = func() int64 { return time.Now().UnixMilli() } }()

	a := g.Next()
	now = 900 // clock went backwards
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("expected b>a despite clock regression")
	}
}

func TestParseRoundTrip(t *testing.T) {
	want := FromParts(1234, 7)
	got, err := Parse(want.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %v != %v", got, want)
	}
	if got.Time().UnixMilli() != 1234 || got.Seq() != 7 {
		t.Fatalf("accessors: %v %v", got.Time().UnixMilli(), got.Seq())
	}
	if _, err := Parse("zz"); err == nil {
		t.Fatalf("expected error for short input")
	}
}
