package cmd

import (
	"github.com/spf13/cobra"

	"confirm-core/internal/event"
)

var (
	failID        string
	failMessageID string
	failCode      string
)

// failCmd publishes an unlock failure callback
var failCmd = &cobra.Command{
	Use:   "fail",
	Short: "Report an unlock failure for a transaction",
	Long: `Publishes an unlock failure with a signer error code.
Code "2" is wrong password, "4" already discarded; anything else is treated
as unrecoverable by the coordinator.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishJSON(event.TopicUnlockFailed, failID, event.UnlockFailedEvent{
			ID:        failID,
			MessageID: failMessageID,
			Code:      failCode,
		})
	},
}

func init() {
	failCmd.Flags().StringVar(&failID, "id", "", "transaction id")
	failCmd.Flags().StringVar(&failMessageID, "message-id", "", "originating message id")
	failCmd.Flags().StringVar(&failCode, "code", "2", "signer error code")
	failCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(failCmd)
}
