package tasksvc

import (
	"context"
	"testing"
	"time"
)

func TestBuiltinTopics(t *testing.T) {
	s := newTestService(t, Options{})
	if err := RegisterBuiltins(s); err != nil {
		t.Fatalf("register builtins: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := s.SubmitWait(ctx, "e1", "echo", []byte("abc"))
	if err != nil || string(res.Payload) != "abc" {
		t.Fatalf("echo: %v %q", err, res.Payload)
	}

	res, err = s.SubmitWait(ctx, "h1", "sha256", []byte("abc"))
	if err != nil {
		t.Fatalf("sha256: %v", err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if string(res.Payload) != want {
		t.Fatalf("digest %q", res.Payload)
	}

	start := time.Now()
	if _, err := s.SubmitWait(ctx, "s1", "sleep", []byte(`{"ms":20}`)); err != nil {
		t.Fatalf("sleep: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatalf("sleep returned early")
	}
}

func TestRegisterBuiltinsTwice(t *testing.T) {
	s := newTestService(t, Options{})
	if err := RegisterBuiltins(s); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := RegisterBuiltins(s); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
