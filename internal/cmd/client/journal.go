package client

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// NewJournalCommand constructs the `journal` command group.
func NewJournalCommand(baseURL BaseURLFunc) *cobra.Command {
	journalCmd := &cobra.Command{Use: "journal", Short: "Journal operations"}

	readCmd := &cobra.Command{
		Use:   "read",
		Short: "Page through journaled completions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			after, _ := cmd.Flags().GetString("after")
			limit, _ := cmd.Flags().GetInt("limit")
			entries, err := getTransport(baseURL).ReadJournal(cmd.Context(), after, limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, e := range entries {
				if err := enc.Encode(map[string]any{
					"id":       e.ID,
					"identity": e.Identity,
					"topic":    e.Topic,
					"payload":  printablePayload(e.Payload),
					"atMs":     e.AtMs,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	readCmd.Flags().String("after", "", "Resume after this entry id (hex)")
	readCmd.Flags().Int("limit", 100, "Maximum entries to return (0 = all)")
	journalCmd.AddCommand(readCmd)
	return journalCmd
}
