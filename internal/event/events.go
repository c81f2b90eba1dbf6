package event

// Topic names for the confirmation pipeline. Inbound topics are consumed
// from the signing service and the messaging subsystem; outbound topics
// carry commands back to them and UI signals to the presentation layer.
const (
	TopicTransactionQueued = "signer_events_queued"
	TopicUnlockResult      = "signer_events_result"
	TopicUnlockFailed      = "signer_events_failed"
	TopicSubscription      = "messaging_events_subscribe"

	TopicUnlockRequest  = "signer_commands_unlock"
	TopicDiscardRequest = "signer_commands_discard"
	TopicDeliverHash    = "messaging_commands_deliver"
	TopicUISignal       = "ui_events_confirm"
)

// TransactionQueuedEvent announces a new transaction awaiting approval.
// Topic: signer_events_queued
type TransactionQueuedEvent struct {
	ID          string `json:"id"`
	MessageID   string `json:"message_id,omitempty"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Value       string `json:"value"` // Decimal string
}

// UnlockResultEvent carries the signing service's completion payload for an
// unlock attempt. Response is opaque on the wire and parsed by the core.
// Topic: signer_events_result
type UnlockResultEvent struct {
	ID       string `json:"id"`
	Response []byte `json:"response"`
}

// UnlockResponse is the deserialized form of UnlockResultEvent.Response.
type UnlockResponse struct {
	Hash  string `json:"hash,omitempty"`
	Error string `json:"error,omitempty"`
}

// UnlockFailedEvent reports an unlock failure with a signer error code.
// Topic: signer_events_failed
type UnlockFailedEvent struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id,omitempty"`
	Code      string `json:"code"`
}

// SubscriptionEvent registers messaging-subsystem interest in the hash of
// the transaction tied to a message id.
// Topic: messaging_events_subscribe
type SubscriptionEvent struct {
	MessageID   string         `json:"message_id"`
	ChatID      string         `json:"chat_id"`
	HandlerData map[string]any `json:"handler_data,omitempty"`
}

// UnlockRequestEvent asks the signing service to unlock and submit a
// queued transaction.
// Topic: signer_commands_unlock
type UnlockRequestEvent struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// DiscardRequestEvent asks the signing service to drop a transaction.
// Topic: signer_commands_discard
type DiscardRequestEvent struct {
	ID string `json:"id"`
}

// HashDeliveryEvent forwards an enriched command, hash attached, to the
// messaging subsystem. Published at most once per message id.
// Topic: messaging_commands_deliver
type HashDeliveryEvent struct {
	ChatID      string         `json:"chat_id"`
	HandlerData map[string]any `json:"handler_data"`
}

// UI signal kinds understood by the presentation layer.
const (
	SignalOpenConfirmation  = "open_confirmation"
	SignalCloseConfirmation = "close_confirmation"
	SignalShowWrongPassword = "show_wrong_password"
	SignalHideWrongPassword = "hide_wrong_password"
	SignalClearPassword     = "clear_password"
)

// UISignalEvent instructs the presentation layer to update the
// confirmation surface.
// Topic: ui_events_confirm
type UISignalEvent struct {
	Signal string `json:"signal"`
}
