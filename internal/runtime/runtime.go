package runtime

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/NexPlugs/pl-flow/internal/config"
	"github.com/NexPlugs/pl-flow/internal/journal"
	tasksvc "github.com/NexPlugs/pl-flow/internal/services/tasks"
	pebblestore "github.com/NexPlugs/pl-flow/internal/storage/pebble"
	logpkg "github.com/NexPlugs/pl-flow/pkg/log"
)

const journalName = "completions"

// Options for building the Runtime.
type Options struct {
	// DataDir holds the journal store. Empty picks the host default; only used
	// when the journal is enabled.
	DataDir string
	Config  cfgpkg.Config
	Logger  logpkg.Logger
}

// Runtime wires storage, the completion journal, and the task service for a
// single-node instance.
type Runtime struct {
	db     *pebblestore.DB
	jr     *journal.Journal
	tasks  *tasksvc.Service
	config cfgpkg.Config
	logger logpkg.Logger
}

// Open initializes storage (when journaling is on) and the task service.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("runtime"))
	}

	rt := &Runtime{config: cfg, logger: logger}
	if cfg.Journal.Enabled {
		fsync, err := pebblestore.ParseFsyncMode(cfg.Journal.Fsync)
		if err != nil {
			return nil, err
		}
		dataDir := opts.DataDir
		if dataDir == "" {
			dataDir = cfgpkg.DefaultDataDir()
		}
		db, err := pebblestore.Open(pebblestore.Options{
			DataDir:       dataDir,
			Fsync:         fsync,
			FsyncInterval: time.Duration(cfg.Journal.FsyncIntervalMs) * time.Millisecond,
		})
		if err != nil {
			return nil, err
		}
		jr, err := journal.Open(db, journalName)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		rt.db = db
		rt.jr = jr
		if cfg.Journal.RetentionMs > 0 {
			cutoff := time.Now().Add(-time.Duration(cfg.Journal.RetentionMs) * time.Millisecond)
			if n, err := jr.TrimOlderThan(context.Background(), cutoff, 1024); err != nil {
				logger.Warnf("journal trim failed: %v", err)
			} else if n > 0 {
				logger.Infof("journal trimmed %d entries older than %s", n, cutoff.Format(time.RFC3339))
			}
		}
	}

	rt.tasks = tasksvc.New(tasksvc.Options{
		MaxConcurrentTasks: cfg.Queue.MaxConcurrentTasks,
		TTL:                cfg.Queue.TTL(),
		MaxQueueSize:       cfg.Queue.MaxQueueSize,
		Journal:            rt.jr,
		Logger:             logger.With(logpkg.Component("tasks")),
	})
	return rt, nil
}

// Tasks returns the task service facade.
func (r *Runtime) Tasks() *tasksvc.Service { return r.tasks }

// Journal returns the completion journal, or nil when journaling is off.
func (r *Runtime) Journal() *journal.Journal { return r.jr }

// Close shuts the task service down and closes underlying storage.
func (r *Runtime) Close() error {
	if r.tasks != nil {
		r.tasks.Close()
	}
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check. With journaling off there is no
// storage to probe and the runtime is healthy as long as it exists.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.tasks == nil {
		return errors.New("task service not open")
	}
	if r.db == nil {
		return nil
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
