package messenger

import (
	"context"
	"encoding/json"
	"fmt"

	"confirm-core/internal/event"
	"confirm-core/internal/service/mq"
)

// MQMessenger forwards enriched commands to the messaging subsystem over
// the queue, keyed by chat id so per-conversation ordering holds.
type MQMessenger struct {
	producer mq.Producer
}

func NewMQMessenger(producer mq.Producer) *MQMessenger {
	return &MQMessenger{producer: producer}
}

func (m *MQMessenger) DeliverHash(ctx context.Context, chatID string, handlerData map[string]any) error {
	payload, err := json.Marshal(event.HashDeliveryEvent{
		ChatID:      chatID,
		HandlerData: handlerData,
	})
	if err != nil {
		return fmt.Errorf("marshal hash delivery: %w", err)
	}
	return m.producer.Publish(ctx, event.TopicDeliverHash, chatID, payload)
}

// KnowsChat always reports true: over the queue the messaging subsystem is
// the one that validates chat membership, and an unknown chat on its side
// simply drops the command.
func (m *MQMessenger) KnowsChat(ctx context.Context, chatID string) bool {
	return true
}
