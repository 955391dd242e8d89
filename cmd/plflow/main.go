package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientcmd "github.com/NexPlugs/pl-flow/internal/cmd/client"
	serverrun "github.com/NexPlugs/pl-flow/internal/cmd/server"
	cfgpkg "github.com/NexPlugs/pl-flow/internal/config"
	logpkg "github.com/NexPlugs/pl-flow/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// Respect PLFLOW_LOG_LEVEL for CLI output before any config is loaded
	level := os.Getenv("PLFLOW_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "plflow",
		Short: "pl-flow runtime CLI",
		Long:  "pl-flow is a single-binary coalescing task queue. This CLI manages the server and basic operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start pl-flow server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			maxConcurrent, _ := cmd.Flags().GetInt("max-concurrent-tasks")
			maxQueue, _ := cmd.Flags().GetInt("max-queue-size")
			ttlMs, _ := cmd.Flags().GetInt64("ttl-ms")
			noJournal, _ := cmd.Flags().GetBool("no-journal")

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			// flags win over file and env
			if fsyncMode != "" {
				cfg.Journal.Fsync = fsyncMode
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}
			if cmd.Flags().Changed("max-concurrent-tasks") {
				cfg.Queue.MaxConcurrentTasks = maxConcurrent
			}
			if cmd.Flags().Changed("max-queue-size") {
				cfg.Queue.MaxQueueSize = maxQueue
			}
			if cmd.Flags().Changed("ttl-ms") {
				cfg.Queue.TimeToLiveMs = ttlMs
			}
			if noJournal {
				cfg.Journal.Enabled = false
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:  dataDir,
				HTTPAddr: httpAddr,
				Config:   cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("config", "", "Config file (JSON or TOML)")
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("http", "", "HTTP listen address (default from config, :8080)")
	serverStartCmd.Flags().String("fsync", "", "Journal fsync mode: always|interval|never")
	serverStartCmd.Flags().String("log-level", os.Getenv("PLFLOW_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("PLFLOW_LOG_FORMAT"), "Log format: text|json (default text)")
	serverStartCmd.Flags().Int("max-concurrent-tasks", 0, "Cap on simultaneously running tasks")
	serverStartCmd.Flags().Int("max-queue-size", 0, "Cap on pending tasks (oldest evicted past it)")
	serverStartCmd.Flags().Int64("ttl-ms", 0, "Pending entry time-to-live in ms (0 disables expiry)")
	serverStartCmd.Flags().Bool("no-journal", false, "Disable the durable completion journal")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// task/watch/journal commands (in internal/cmd/client)
	rootCmd.AddCommand(clientcmd.NewTaskCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewWatchCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewJournalCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("PLFLOW_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
