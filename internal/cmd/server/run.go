package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	cfgpkg "github.com/NexPlugs/pl-flow/internal/config"
	"github.com/NexPlugs/pl-flow/internal/runtime"
	httpserver "github.com/NexPlugs/pl-flow/internal/server/http"
	tasksvc "github.com/NexPlugs/pl-flow/internal/services/tasks"
	logpkg "github.com/NexPlugs/pl-flow/pkg/log"
)

type Options struct {
	DataDir  string
	HTTPAddr string
	Config   cfgpkg.Config
	// RegisterTopics runs after the runtime opens; nil registers the builtin
	// topics only.
	RegisterTopics func(*tasksvc.Service) error
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context; layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	procLogger, err := logpkg.ApplyConfig(&logpkg.Config{
		Level:  opts.Config.Log.Level,
		Format: opts.Config.Log.Format,
	})
	if err != nil {
		procLogger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}
	// Redirect stdlib logs (e.g., Pebble) to our logger
	logpkg.RedirectStdLog(procLogger)

	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	httpAddr := opts.HTTPAddr
	if httpAddr == "" {
		httpAddr = opts.Config.HTTPAddr
	}
	storeDir := filepath.Join(opts.DataDir, "store")
	rt, err := runtime.Open(runtime.Options{
		DataDir: storeDir,
		Config:  opts.Config,
		Logger:  procLogger.With(logpkg.Component("runtime")),
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	register := opts.RegisterTopics
	if register == nil {
		register = tasksvc.RegisterBuiltins
	}
	if err := register(rt.Tasks()); err != nil {
		return err
	}

	procLogger.Info("Starting pl-flow server",
		logpkg.Str("http", httpAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Int("max_concurrent_tasks", opts.Config.Queue.MaxConcurrentTasks),
		logpkg.Int("max_queue_size", opts.Config.Queue.MaxQueueSize),
		logpkg.Int64("time_to_live_ms", opts.Config.Queue.TimeToLiveMs),
		logpkg.Bool("journal", opts.Config.Journal.Enabled),
	)

	hsrv := httpserver.New(rt, procLogger.With(logpkg.Component("http")))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, httpAddr); err != nil && sctx.Err() == nil {
			procLogger.Errorf("http error: %v", err)
		}
	}()

	<-sctx.Done()
	// Shut the server down before closing the runtime/DB to avoid races.
	hsrv.Close()
	wg.Wait()
	return nil
}
