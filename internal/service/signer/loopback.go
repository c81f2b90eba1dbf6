package signer

import (
	"context"
	"crypto/subtle"
	"encoding/json"

	"go.uber.org/zap"
	"golang.org/x/crypto/scrypt"

	"confirm-core/internal/event"
	"confirm-core/internal/service/confirm"
	"confirm-core/pkg/crypto_util"
	"confirm-core/pkg/logger"
	"confirm-core/pkg/safe_random"
)

// scrypt parameters for the loopback password digest. Interactive-login
// strength is enough for a development simulator.
const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

// Dispatcher feeds simulated signer callbacks back into the coordinator.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev confirm.Event) error
}

// LoopbackSigner simulates the external signing service so the whole
// pipeline runs without one. Unlock attempts are checked against a single
// configured password; successes produce a deterministic fake hash derived
// from the transaction id.
type LoopbackSigner struct {
	dispatcher Dispatcher
	salt       []byte
	digest     []byte
}

func NewLoopbackSigner(password string, dispatcher Dispatcher) (*LoopbackSigner, error) {
	salt, err := safe_random.GenerateRandomBytes(16)
	if err != nil {
		return nil, err
	}
	digest, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, err
	}
	return &LoopbackSigner{
		dispatcher: dispatcher,
		salt:       salt,
		digest:     digest,
	}, nil
}

// RequestUnlock verifies the password off the reduction goroutine and sends
// the result back as an inbound event, the same shape the real signer uses.
func (s *LoopbackSigner) RequestUnlock(ctx context.Context, txID, password string) error {
	go func() {
		candidate, err := scrypt.Key([]byte(password), s.salt, scryptN, scryptR, scryptP, scryptKeyLen)
		if err != nil {
			logger.Error("loopback digest failed", zap.Error(err))
			return
		}

		if subtle.ConstantTimeCompare(candidate, s.digest) != 1 {
			ev := confirm.UnlockFailed{TxID: txID, Code: string(confirm.CodeWrongPassword)}
			if err := s.dispatcher.Dispatch(ctx, ev); err != nil {
				logger.Error("loopback dispatch failed", zap.String("tx_id", txID), zap.Error(err))
			}
			return
		}

		hash := "0x" + crypto_util.CalculateBlake3([]byte(txID))
		raw, err := json.Marshal(event.UnlockResponse{Hash: hash})
		if err != nil {
			logger.Error("loopback response marshal failed", zap.String("tx_id", txID), zap.Error(err))
			return
		}
		if err := s.dispatcher.Dispatch(ctx, confirm.UnlockResult{TxID: txID, Raw: raw}); err != nil {
			logger.Error("loopback dispatch failed", zap.String("tx_id", txID), zap.Error(err))
		}
	}()
	return nil
}

// RequestDiscard forgets the transaction. The real signer sends no callback
// for a requested discard, so neither does the loopback.
func (s *LoopbackSigner) RequestDiscard(ctx context.Context, txID string) error {
	logger.Debug("loopback discard", zap.String("tx_id", txID))
	return nil
}
