package service

import "context"

// SignerClient is the capability exposed by the external signing service.
// Both calls are fire-and-forget; results arrive later as inbound events.
type SignerClient interface {
	// RequestUnlock asks the signer to unlock and submit a transaction.
	RequestUnlock(ctx context.Context, txID, password string) error

	// RequestDiscard asks the signer to drop a transaction.
	RequestDiscard(ctx context.Context, txID string) error
}

// Messenger is the messaging-subsystem capability.
type Messenger interface {
	// DeliverHash forwards an enriched command (hash attached to the
	// handler data) to the chat that requested the transaction.
	DeliverHash(ctx context.Context, chatID string, handlerData map[string]any) error

	// KnowsChat reports whether the messaging subsystem still recognizes
	// the conversation. Subscriptions for unknown chats are left alone.
	KnowsChat(ctx context.Context, chatID string) bool
}

// Presenter is the presentation-layer capability. Signals only; the core
// never renders anything itself.
type Presenter interface {
	OpenConfirmation(ctx context.Context) error
	CloseConfirmation(ctx context.Context) error
	ShowWrongPassword(ctx context.Context) error
	HideWrongPassword(ctx context.Context) error
	ClearPasswordField(ctx context.Context) error
}

// AuditStore persists terminal transaction outcomes.
type AuditStore interface {
	RecordDelivered(ctx context.Context, txID, messageID, hash string) error
	RecordCompleted(ctx context.Context, txID, hash string) error
	RecordFailed(ctx context.Context, txID, messageID, code string) error
	RecordDenied(ctx context.Context, txID, messageID string) error
}
