package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QueuedTransaction is a transaction awaiting the user's accept/deny
// decision. It exists only inside the in-memory queue.
type QueuedTransaction struct {
	ID          string
	FromAddress string
	ToAddress   string
	Value       decimal.Decimal
	MessageID   string // empty when no conversational message is attached
}

// ConfirmedTransaction is a transaction whose unlock completed. It lives in
// the registry until its hash has been delivered (or immediately discarded
// when there is no message to correlate).
type ConfirmedTransaction struct {
	ID        string
	Hash      string
	MessageID string
}

// PendingSubscription is a messaging-subsystem command waiting for a
// transaction hash.
type PendingSubscription struct {
	MessageID   string
	ChatID      string
	HandlerData map[string]any
}

// TransactionAudit records the terminal outcome of a confirmed transaction.
// Statuses: delivered, completed (no message to correlate), failed, denied.
type TransactionAudit struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	TxID      string         `gorm:"type:varchar(128);not null;index" json:"tx_id"`
	MessageID string         `gorm:"type:varchar(128);index" json:"message_id,omitempty"`
	Hash      string         `gorm:"type:varchar(128)" json:"hash,omitempty"`
	Status    string         `gorm:"type:varchar(32);not null;index" json:"status"`
	FailCode  string         `gorm:"type:varchar(32)" json:"fail_code,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TransactionAudit) TableName() string {
	return "transaction_audits"
}
