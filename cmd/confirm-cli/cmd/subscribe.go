package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"confirm-core/internal/event"
)

var (
	subMessageID   string
	subChatID      string
	subHandlerData string
)

// subscribeCmd registers messaging interest in a transaction hash
var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Register a subscription waiting for a transaction hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		handlerData := map[string]any{}
		if subHandlerData != "" {
			if err := json.Unmarshal([]byte(subHandlerData), &handlerData); err != nil {
				return fmt.Errorf("invalid handler data JSON: %w", err)
			}
		}

		return publishJSON(event.TopicSubscription, subChatID, event.SubscriptionEvent{
			MessageID:   subMessageID,
			ChatID:      subChatID,
			HandlerData: handlerData,
		})
	},
}

func init() {
	subscribeCmd.Flags().StringVar(&subMessageID, "message-id", "", "message id to correlate")
	subscribeCmd.Flags().StringVar(&subChatID, "chat-id", "", "originating chat id")
	subscribeCmd.Flags().StringVar(&subHandlerData, "handler-data", "", "handler data as JSON object")
	subscribeCmd.MarkFlagRequired("message-id")
	subscribeCmd.MarkFlagRequired("chat-id")

	rootCmd.AddCommand(subscribeCmd)
}
