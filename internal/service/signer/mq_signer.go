package signer

import (
	"context"
	"encoding/json"
	"fmt"

	"confirm-core/internal/event"
	"confirm-core/internal/service/mq"
)

// MQSigner talks to the external signing service over the message queue.
// Both commands are fire-and-forget; the signer answers on its own event
// topics later.
type MQSigner struct {
	producer mq.Producer
}

func NewMQSigner(producer mq.Producer) *MQSigner {
	return &MQSigner{producer: producer}
}

func (s *MQSigner) RequestUnlock(ctx context.Context, txID, password string) error {
	payload, err := json.Marshal(event.UnlockRequestEvent{ID: txID, Password: password})
	if err != nil {
		return fmt.Errorf("marshal unlock request: %w", err)
	}
	return s.producer.Publish(ctx, event.TopicUnlockRequest, txID, payload)
}

func (s *MQSigner) RequestDiscard(ctx context.Context, txID string) error {
	payload, err := json.Marshal(event.DiscardRequestEvent{ID: txID})
	if err != nil {
		return fmt.Errorf("marshal discard request: %w", err)
	}
	return s.producer.Publish(ctx, event.TopicDiscardRequest, txID, payload)
}
