package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"confirm-core/internal/event"
	"confirm-core/pkg/safe_random"
)

var (
	queueID        string
	queueMessageID string
	queueFrom      string
	queueTo        string
	queueValue     string
)

// queueCmd publishes a "transaction queued" signer callback
var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Announce a transaction awaiting confirmation",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := queueID
		if id == "" {
			suffix, err := safe_random.GenerateRandomHexString(8)
			if err != nil {
				return err
			}
			id = "tx-" + suffix
			fmt.Printf("generated transaction id: %s\n", id)
		}

		return publishJSON(event.TopicTransactionQueued, id, event.TransactionQueuedEvent{
			ID:          id,
			MessageID:   queueMessageID,
			FromAddress: queueFrom,
			ToAddress:   queueTo,
			Value:       queueValue,
		})
	},
}

func init() {
	queueCmd.Flags().StringVar(&queueID, "id", "", "transaction id (random when empty)")
	queueCmd.Flags().StringVar(&queueMessageID, "message-id", "", "originating message id")
	queueCmd.Flags().StringVar(&queueFrom, "from", "0x0000000000000000000000000000000000000001", "sender address")
	queueCmd.Flags().StringVar(&queueTo, "to", "0x0000000000000000000000000000000000000002", "destination address")
	queueCmd.Flags().StringVar(&queueValue, "value", "1", "transaction value")

	rootCmd.AddCommand(queueCmd)
}
