package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Queue.MaxConcurrentTasks != 4 {
		t.Fatalf("default concurrency")
	}
	if cfg.Queue.MaxQueueSize != 1024 {
		t.Fatalf("default queue size")
	}
	if cfg.Queue.TTL() != 30*time.Second {
		t.Fatalf("default ttl: %v", cfg.Queue.TTL())
	}
	if !cfg.Journal.Enabled {
		t.Fatalf("journal should default on")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pl-flow.json")
	data := []byte(`{"httpAddr":":9090","queue":{"maxConcurrentTasks":2,"timeToLiveMs":5000,"maxQueueSize":16},"journal":{"enabled":false}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("httpAddr %q", cfg.HTTPAddr)
	}
	if cfg.Queue.MaxConcurrentTasks != 2 || cfg.Queue.TimeToLiveMs != 5000 || cfg.Queue.MaxQueueSize != 16 {
		t.Fatalf("queue config %+v", cfg.Queue)
	}
	if cfg.Journal.Enabled {
		t.Fatalf("journal should be disabled")
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pl-flow.toml")
	data := []byte("http_addr = \":7070\"\n\n[queue]\nmax_concurrent_tasks = 8\nmax_queue_size = 256\ntime_to_live_ms = 1000\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7070" || cfg.Queue.MaxConcurrentTasks != 8 || cfg.Queue.MaxQueueSize != 256 {
		t.Fatalf("toml config %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(file, []byte(`{"queue":{"maxConcurrentTasks":0,"maxQueueSize":1}}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected validation error for zero concurrency")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("PLFLOW_HTTP_ADDR", ":1234")
	t.Setenv("PLFLOW_MAX_CONCURRENT_TASKS", "9")
	t.Setenv("PLFLOW_TIME_TO_LIVE_MS", "750")
	t.Setenv("PLFLOW_JOURNAL_ENABLED", "false")
	t.Setenv("PLFLOW_LOG_LEVEL", "debug")
	FromEnv(&cfg)
	if cfg.HTTPAddr != ":1234" {
		t.Fatalf("http addr not overlaid")
	}
	if cfg.Queue.MaxConcurrentTasks != 9 || cfg.Queue.TimeToLiveMs != 750 {
		t.Fatalf("queue env overlay %+v", cfg.Queue)
	}
	if cfg.Journal.Enabled {
		t.Fatalf("journal env overlay")
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log env overlay")
	}
}

func TestDefaultDataDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if got := DefaultDataDir(); got != filepath.Join("/custom/data", "pl-flow") {
		t.Fatalf("xdg dir %q", got)
	}
}
