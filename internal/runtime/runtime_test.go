package runtime

import (
	"context"
	"testing"
	"time"

	cfgpkg "github.com/NexPlugs/pl-flow/internal/config"
	tasksvc "github.com/NexPlugs/pl-flow/internal/services/tasks"
)

func TestOpenWithoutJournal(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Journal.Enabled = false
	rt, err := Open(Options{Config: cfg})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	if rt.Journal() != nil || rt.DB() != nil {
		t.Fatalf("journal must stay closed when disabled")
	}
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if err := rt.Tasks().Register("echo", func(ctx context.Context, task tasksvc.Task) (tasksvc.Result, error) {
		return tasksvc.Result{Topic: task.Topic, Payload: task.Payload}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := rt.Tasks().SubmitWait(ctx, "x", "echo", []byte("ping"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if string(res.Payload) != "ping" {
		t.Fatalf("result %q", res.Payload)
	}
}

func TestOpenWithJournal(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Journal.Fsync = "never"
	rt, err := Open(Options{DataDir: t.TempDir(), Config: cfg})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	if rt.Journal() == nil || rt.DB() == nil {
		t.Fatalf("journal must open when enabled")
	}
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if err := rt.Tasks().Register("echo", func(ctx context.Context, task tasksvc.Task) (tasksvc.Result, error) {
		return tasksvc.Result{Topic: task.Topic, Payload: task.Payload}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rt.Tasks().SubmitWait(ctx, "x", "echo", []byte("ping")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	recs, err := rt.Tasks().ReadJournal("", 0)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if len(recs) != 1 || recs[0].Identity != "x" {
		t.Fatalf("journal records %+v", recs)
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Queue.MaxConcurrentTasks = 0
	if _, err := Open(Options{Config: cfg}); err == nil {
		t.Fatalf("expected validation error")
	}
	cfg = cfgpkg.Default()
	cfg.Journal.Fsync = "sometimes"
	if _, err := Open(Options{DataDir: t.TempDir(), Config: cfg}); err == nil {
		t.Fatalf("expected fsync mode error")
	}
}
