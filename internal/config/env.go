package config

import (
	"os"
	"strconv"
)

// FromEnv overlays PLFLOW_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("PLFLOW_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("PLFLOW_MAX_CONCURRENT_TASKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Queue.MaxConcurrentTasks = n
		}
	}
	if v := os.Getenv("PLFLOW_TIME_TO_LIVE_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Queue.TimeToLiveMs = n
		}
	}
	if v := os.Getenv("PLFLOW_MAX_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Queue.MaxQueueSize = n
		}
	}
	if v := os.Getenv("PLFLOW_JOURNAL_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if v := os.Getenv("PLFLOW_JOURNAL_FSYNC"); v != "" {
		cfg.Journal.Fsync = v
	}
	if v := os.Getenv("PLFLOW_JOURNAL_RETENTION_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Journal.RetentionMs = n
		}
	}
	if v := os.Getenv("PLFLOW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PLFLOW_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
