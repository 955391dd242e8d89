package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	HTTPAddr string        `json:"httpAddr" toml:"http_addr"`
	Queue    QueueConfig   `json:"queue" toml:"queue"`
	Journal  JournalConfig `json:"journal" toml:"journal"`
	Log      LogConfig     `json:"log" toml:"log"`
}

// QueueConfig carries the task-runner bounds.
type QueueConfig struct {
	// MaxConcurrentTasks caps simultaneously-running tasks (minimum 1).
	MaxConcurrentTasks int `json:"maxConcurrentTasks" toml:"max_concurrent_tasks"`
	// TimeToLiveMs expires pending entries untouched longer than this; 0
	// disables expiry.
	TimeToLiveMs int64 `json:"timeToLiveMs" toml:"time_to_live_ms"`
	// MaxQueueSize caps the pending registry (minimum 1).
	MaxQueueSize int `json:"maxQueueSize" toml:"max_queue_size"`
}

// TTL returns the time-to-live as a duration.
func (q QueueConfig) TTL() time.Duration {
	return time.Duration(q.TimeToLiveMs) * time.Millisecond
}

// JournalConfig controls the durable completion journal.
type JournalConfig struct {
	Enabled bool   `json:"enabled" toml:"enabled"`
	// Fsync is one of always|interval|never.
	Fsync           string `json:"fsync" toml:"fsync"`
	FsyncIntervalMs int64  `json:"fsyncIntervalMs" toml:"fsync_interval_ms"`
	// RetentionMs trims journal entries older than this on startup; 0 keeps
	// everything.
	RetentionMs int64 `json:"retentionMs" toml:"retention_ms"`
}

// LogConfig carries logger settings.
type LogConfig struct {
	Level  string `json:"level" toml:"level"`
	Format string `json:"format" toml:"format"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr: ":8080",
		Queue: QueueConfig{
			MaxConcurrentTasks: 4,
			TimeToLiveMs:       30_000,
			MaxQueueSize:       1024,
		},
		Journal: JournalConfig{
			Enabled: true,
			Fsync:   "interval",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate rejects configurations the runner cannot honor.
func (c Config) Validate() error {
	if c.Queue.MaxConcurrentTasks < 1 {
		return fmt.Errorf("config: maxConcurrentTasks must be >= 1, got %d", c.Queue.MaxConcurrentTasks)
	}
	if c.Queue.MaxQueueSize < 1 {
		return fmt.Errorf("config: maxQueueSize must be >= 1, got %d", c.Queue.MaxQueueSize)
	}
	if c.Queue.TimeToLiveMs < 0 {
		return fmt.Errorf("config: timeToLiveMs must be >= 0, got %d", c.Queue.TimeToLiveMs)
	}
	return nil
}

// Load reads configuration from a JSON or TOML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch filepath.Ext(path) {
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
