package client

import (
	"encoding/json"

	transports "github.com/NexPlugs/pl-flow/internal/cmd/client/transports"
	"github.com/spf13/cobra"
)

// NewWatchCommand constructs the `watch` command: it follows the success feed
// and prints one JSON object per completion.
func NewWatchCommand(baseURL BaseURLFunc) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the success feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			buffer, _ := cmd.Flags().GetInt("buffer")
			limit, _ := cmd.Flags().GetInt("limit")

			enc := json.NewEncoder(cmd.OutOrStdout())
			return getTransport(baseURL).Watch(cmd.Context(), transports.WatchRequest{
				Filter: filter,
				Buffer: buffer,
				Limit:  limit,
			}, func(ev transports.WatchEvent) error {
				return enc.Encode(map[string]any{
					"identity": ev.Identity,
					"topic":    ev.Topic,
					"payload":  printablePayload(ev.Payload),
					"atMs":     ev.AtMs,
				})
			})
		},
	}
	watchCmd.Flags().String("filter", "", "CEL filter (server-side)")
	watchCmd.Flags().Int("buffer", 0, "Server-side feed buffer")
	watchCmd.Flags().Int("limit", 0, "Stop after N completions (0 = infinite)")
	return watchCmd
}
