package presenter

import (
	"context"
	"encoding/json"
	"fmt"

	"confirm-core/internal/event"
	"confirm-core/internal/service/mq"
)

// MQPresenter publishes UI signals for the presentation layer. The core
// never renders anything; the surface consuming this topic decides how to
// show, hide, or clear.
type MQPresenter struct {
	producer mq.Producer
}

func NewMQPresenter(producer mq.Producer) *MQPresenter {
	return &MQPresenter{producer: producer}
}

func (p *MQPresenter) signal(ctx context.Context, kind string) error {
	payload, err := json.Marshal(event.UISignalEvent{Signal: kind})
	if err != nil {
		return fmt.Errorf("marshal ui signal: %w", err)
	}
	return p.producer.Publish(ctx, event.TopicUISignal, "", payload)
}

func (p *MQPresenter) OpenConfirmation(ctx context.Context) error {
	return p.signal(ctx, event.SignalOpenConfirmation)
}

func (p *MQPresenter) CloseConfirmation(ctx context.Context) error {
	return p.signal(ctx, event.SignalCloseConfirmation)
}

func (p *MQPresenter) ShowWrongPassword(ctx context.Context) error {
	return p.signal(ctx, event.SignalShowWrongPassword)
}

func (p *MQPresenter) HideWrongPassword(ctx context.Context) error {
	return p.signal(ctx, event.SignalHideWrongPassword)
}

func (p *MQPresenter) ClearPasswordField(ctx context.Context) error {
	return p.signal(ctx, event.SignalClearPassword)
}
