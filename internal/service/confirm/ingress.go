package confirm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"confirm-core/internal/event"
	"confirm-core/internal/model"
	"confirm-core/internal/service/mq"
	"confirm-core/pkg/logger"
)

// BindConsumer subscribes the coordinator to the inbound topics, decoding
// wire events into reduction events. Decode failures are returned to the
// consumer so its redelivery policy applies. Each subscription runs in its
// own goroutine since some consumers block in Subscribe.
func BindConsumer(ctx context.Context, consumer mq.Consumer, c *Coordinator) error {
	topics := map[string]func(*mq.Message) (Event, error){
		event.TopicTransactionQueued: decodeQueued,
		event.TopicUnlockResult:      decodeUnlockResult,
		event.TopicUnlockFailed:      decodeUnlockFailed,
		event.TopicSubscription:      decodeSubscription,
	}

	for topic, decode := range topics {
		topic, decode := topic, decode
		handler := func(msg *mq.Message) error {
			ev, err := decode(msg)
			if err != nil {
				return err
			}
			return c.Dispatch(ctx, ev)
		}
		go func() {
			if err := consumer.Subscribe(ctx, topic, handler); err != nil {
				logger.Error("topic subscription failed", zap.String("topic", topic), zap.Error(err))
			}
		}()
	}
	return nil
}

func decodeQueued(msg *mq.Message) (Event, error) {
	var e event.TransactionQueuedEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("decode queued event: %w", err)
	}
	value, err := decimal.NewFromString(e.Value)
	if err != nil {
		return nil, fmt.Errorf("decode queued event value %q: %w", e.Value, err)
	}
	return TransactionQueued{Tx: model.QueuedTransaction{
		ID:          e.ID,
		FromAddress: e.FromAddress,
		ToAddress:   e.ToAddress,
		Value:       value,
		MessageID:   e.MessageID,
	}}, nil
}

func decodeUnlockResult(msg *mq.Message) (Event, error) {
	var e event.UnlockResultEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("decode unlock result: %w", err)
	}
	return UnlockResult{TxID: e.ID, Raw: e.Response}, nil
}

func decodeUnlockFailed(msg *mq.Message) (Event, error) {
	var e event.UnlockFailedEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("decode unlock failure: %w", err)
	}
	return UnlockFailed{TxID: e.ID, MessageID: e.MessageID, Code: e.Code}, nil
}

func decodeSubscription(msg *mq.Message) (Event, error) {
	var e event.SubscriptionEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return SubscriptionRegistered{Sub: model.PendingSubscription{
		MessageID:   e.MessageID,
		ChatID:      e.ChatID,
		HandlerData: e.HandlerData,
	}}, nil
}
