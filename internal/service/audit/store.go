package audit

import (
	"context"

	"gorm.io/gorm"

	"confirm-core/internal/model"
)

// Terminal outcome statuses.
const (
	StatusDelivered = "delivered"
	StatusCompleted = "completed" // unlocked, nothing to correlate
	StatusFailed    = "failed"
	StatusDenied    = "denied"
)

// GormStore persists terminal transaction outcomes to Postgres. It is a
// write-only trail; the in-memory structures remain the source of truth
// for live state.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) RecordDelivered(ctx context.Context, txID, messageID, hash string) error {
	return s.create(ctx, &model.TransactionAudit{
		TxID:      txID,
		MessageID: messageID,
		Hash:      hash,
		Status:    StatusDelivered,
	})
}

func (s *GormStore) RecordCompleted(ctx context.Context, txID, hash string) error {
	return s.create(ctx, &model.TransactionAudit{
		TxID:   txID,
		Hash:   hash,
		Status: StatusCompleted,
	})
}

func (s *GormStore) RecordFailed(ctx context.Context, txID, messageID, code string) error {
	return s.create(ctx, &model.TransactionAudit{
		TxID:      txID,
		MessageID: messageID,
		Status:    StatusFailed,
		FailCode:  code,
	})
}

func (s *GormStore) RecordDenied(ctx context.Context, txID, messageID string) error {
	return s.create(ctx, &model.TransactionAudit{
		TxID:      txID,
		MessageID: messageID,
		Status:    StatusDenied,
	})
}

func (s *GormStore) create(ctx context.Context, rec *model.TransactionAudit) error {
	return s.db.WithContext(ctx).Create(rec).Error
}
