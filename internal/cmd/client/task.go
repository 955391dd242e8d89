package client

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	transports "github.com/NexPlugs/pl-flow/internal/cmd/client/transports"
	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

func getTransport(baseURL BaseURLFunc) transports.TasksTransport {
	return transports.NewHTTPTransport(baseURL())
}

// NewTaskCommand constructs the `task` command group and subcommands.
func NewTaskCommand(baseURL BaseURLFunc) *cobra.Command {
	taskCmd := &cobra.Command{Use: "task", Short: "Task operations"}

	taskCmd.AddCommand(
		newTaskSubmitCommand(baseURL),
		newTaskRemoveCommand(baseURL),
		newTaskClearCommand(baseURL),
		newTaskStatsCommand(baseURL),
		newTaskTopicsCommand(baseURL),
	)

	return taskCmd
}

func payloadFromFlags(cmd *cobra.Command) ([]byte, error) {
	raw, _ := cmd.Flags().GetString("payload")
	b64, _ := cmd.Flags().GetString("payload-b64")
	if raw != "" && b64 != "" {
		return nil, fmt.Errorf("--payload and --payload-b64 are mutually exclusive")
	}
	if b64 != "" {
		b, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("invalid --payload-b64: %w", err)
		}
		return b, nil
	}
	return []byte(raw), nil
}

// newTaskSubmitCommand constructs the `task submit` subcommand.
func newTaskSubmitCommand(baseURL BaseURLFunc) *cobra.Command {
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a task (coalesces on identity)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, _ := cmd.Flags().GetString("identity")
			topic, _ := cmd.Flags().GetString("topic")
			wait, _ := cmd.Flags().GetBool("wait")
			payload, err := payloadFromFlags(cmd)
			if err != nil {
				return err
			}
			t := getTransport(baseURL)
			if !wait {
				if err := t.Submit(cmd.Context(), identity, topic, payload); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "accepted")
				return nil
			}
			res, err := t.SubmitWait(cmd.Context(), identity, topic, payload)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(map[string]any{
				"identity": res.Identity,
				"topic":    res.Topic,
				"payload":  printablePayload(res.Payload),
			})
		},
	}
	submitCmd.Flags().StringP("identity", "i", "", "Task identity (dedup key)")
	submitCmd.Flags().StringP("topic", "t", "", "Topic (registered handler)")
	submitCmd.Flags().String("payload", "", "Payload as UTF-8 text")
	submitCmd.Flags().String("payload-b64", "", "Payload as base64")
	submitCmd.Flags().BoolP("wait", "w", false, "Wait for the result")
	_ = submitCmd.MarkFlagRequired("identity")
	_ = submitCmd.MarkFlagRequired("topic")
	return submitCmd
}

// printablePayload renders valid UTF-8 payloads as text and anything else as
// base64.
func printablePayload(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}

// newTaskRemoveCommand constructs the `task remove` subcommand.
func newTaskRemoveCommand(baseURL BaseURLFunc) *cobra.Command {
	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove one pending claim on an identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, _ := cmd.Flags().GetString("identity")
			removed, err := getTransport(baseURL).Remove(cmd.Context(), identity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed=%v\n", removed)
			return nil
		},
	}
	removeCmd.Flags().StringP("identity", "i", "", "Task identity")
	_ = removeCmd.MarkFlagRequired("identity")
	return removeCmd
}

// newTaskClearCommand constructs the `task clear` subcommand.
func newTaskClearCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all pending tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := getTransport(baseURL).Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil
		},
	}
}

// newTaskStatsCommand constructs the `task stats` subcommand.
func newTaskStatsCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show queue counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := getTransport(baseURL).GetStats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
}

// newTaskTopicsCommand constructs the `task topics` subcommand.
func newTaskTopicsCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List registered topics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			topics, err := getTransport(baseURL).Topics(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range topics {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
