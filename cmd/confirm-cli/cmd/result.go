package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"confirm-core/internal/event"
)

var (
	resultID    string
	resultHash  string
	resultError string
)

// resultCmd publishes an unlock completion callback
var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Report an unlock result for a transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := json.Marshal(event.UnlockResponse{
			Hash:  resultHash,
			Error: resultError,
		})
		if err != nil {
			return err
		}

		return publishJSON(event.TopicUnlockResult, resultID, event.UnlockResultEvent{
			ID:       resultID,
			Response: raw,
		})
	},
}

func init() {
	resultCmd.Flags().StringVar(&resultID, "id", "", "transaction id")
	resultCmd.Flags().StringVar(&resultHash, "hash", "", "resulting transaction hash")
	resultCmd.Flags().StringVar(&resultError, "error", "", "error string (empty for success)")
	resultCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(resultCmd)
}
