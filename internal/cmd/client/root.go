package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the pl-flow client.
// It registers the task, watch, and journal command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "plflow",
		Short: "pl-flow client commands",
	}
	root.AddCommand(NewTaskCommand(baseURL))
	root.AddCommand(NewWatchCommand(baseURL))
	root.AddCommand(NewJournalCommand(baseURL))
	return root
}
