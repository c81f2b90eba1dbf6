package confirm

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"confirm-core/internal/event"
	"confirm-core/internal/model"
	"confirm-core/internal/service"
	"confirm-core/pkg/errno"
	"confirm-core/pkg/logger"
	"confirm-core/pkg/monitor"
)

const defaultEventBuffer = 256

// Options tunes the coordinator. Zero values fall back to defaults.
type Options struct {
	RetryCeiling int
	EventBuffer  int
}

// Coordinator reduces inbound confirmation events over the queue, registry,
// retry guard, and correlator. All state mutation happens inside Run, one
// event at a time; the boundary capabilities (signer, messenger, presenter)
// are fire-and-forget, their results come back as further inbound events.
type Coordinator struct {
	signer    service.SignerClient
	messenger service.Messenger
	presenter service.Presenter
	audit     service.AuditStore // optional

	queue      *Queue
	registry   *Registry
	retry      *RetryGuard
	correlator *Correlator

	events      chan Event
	surfaceOpen bool

	// curCtx is the context of the event currently being applied. Only the
	// reduction goroutine touches it.
	curCtx context.Context
}

func NewCoordinator(opts Options, signer service.SignerClient, messenger service.Messenger, presenter service.Presenter, audit service.AuditStore) *Coordinator {
	buffer := opts.EventBuffer
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}

	c := &Coordinator{
		signer:    signer,
		messenger: messenger,
		presenter: presenter,
		audit:     audit,
		queue:     NewQueue(),
		registry:  NewRegistry(),
		retry:     NewRetryGuard(opts.RetryCeiling),
		events:    make(chan Event, buffer),
	}
	c.correlator = NewCorrelator(c.registry, c.onDeliver)
	return c
}

// Dispatch enqueues an inbound event for reduction. It blocks only when the
// buffer is full and fails when the context is done first.
func (c *Coordinator) Dispatch(ctx context.Context, ev Event) error {
	select {
	case c.events <- ev:
		return nil
	case <-ctx.Done():
		return errno.ErrCoordinatorBusy
	}
}

// Run consumes events until the context is canceled. It is the only
// goroutine that mutates coordinator state.
func (c *Coordinator) Run(ctx context.Context) {
	logger.Info("confirmation coordinator started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("confirmation coordinator stopped")
			return
		case ev := <-c.events:
			c.Apply(ctx, ev)
		}
	}
}

// Apply reduces a single event to completion. Exported so tests can drive
// the state machine synchronously; production traffic goes through Run.
func (c *Coordinator) Apply(ctx context.Context, ev Event) {
	c.curCtx = ctx
	switch e := ev.(type) {
	case TransactionQueued:
		c.applyQueued(ctx, e.Tx)
	case Accepted:
		c.applyAccepted(ctx, e.Password)
	case Denied:
		c.applyDenied(ctx, e.TxID)
	case UnlockResult:
		c.applyUnlockResult(ctx, e.TxID, e.Raw)
	case UnlockFailed:
		c.applyFailure(ctx, e.TxID, e.MessageID, e.Code)
	case SubscriptionRegistered:
		sub := e.Sub
		c.correlator.Register(&sub)
	case queueQuery:
		e.Reply <- c.snapshot()
	}
	c.curCtx = nil
}

// QueueSnapshot returns a copy of the transactions currently awaiting a
// decision, read inside the reduction loop for a consistent view.
func (c *Coordinator) QueueSnapshot(ctx context.Context) ([]model.QueuedTransaction, error) {
	reply := make(chan []model.QueuedTransaction, 1)
	if err := c.Dispatch(ctx, queueQuery{Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case txs := <-reply:
		return txs, nil
	case <-ctx.Done():
		return nil, errno.ErrTimeout
	}
}

func (c *Coordinator) snapshot() []model.QueuedTransaction {
	out := make([]model.QueuedTransaction, 0, c.queue.Len())
	for _, tx := range c.queue.All() {
		out = append(out, *tx)
	}
	return out
}

func (c *Coordinator) applyQueued(ctx context.Context, tx model.QueuedTransaction) {
	if !common.IsHexAddress(tx.ToAddress) {
		logger.Warn("rejecting transaction with malformed destination",
			zap.String("tx_id", tx.ID), zap.String("to", tx.ToAddress))
		if m := monitor.Business; m != nil {
			m.TransactionRejectedTotal.Inc()
		}
		if err := c.signer.RequestDiscard(ctx, tx.ID); err != nil {
			logger.Error("discard request failed", zap.String("tx_id", tx.ID), zap.Error(err))
		}
		return
	}

	// A transaction id lives in at most one of queue/registry.
	if c.queue.Has(tx.ID) || c.registry.Has(tx.ID) {
		logger.Debug("duplicate queued event ignored", zap.String("tx_id", tx.ID))
		return
	}

	c.queue.Enqueue(&tx)
	c.updateQueueDepth()
	if m := monitor.Business; m != nil {
		m.TransactionQueuedTotal.Inc()
	}
	logger.Info("transaction queued for confirmation",
		zap.String("tx_id", tx.ID), zap.String("message_id", tx.MessageID))

	if !c.surfaceOpen {
		c.surfaceOpen = true
		c.retry.Reset() // fresh confirmation session
		if err := c.presenter.OpenConfirmation(ctx); err != nil {
			logger.Error("open confirmation signal failed", zap.Error(err))
		}
	}
}

func (c *Coordinator) applyAccepted(ctx context.Context, password string) {
	// Entering accept mode clears any wrong-password feedback before the
	// unlock results come back.
	if err := c.presenter.HideWrongPassword(ctx); err != nil {
		logger.Error("hide wrong-password signal failed", zap.Error(err))
	}

	for _, tx := range c.queue.All() {
		if err := c.signer.RequestUnlock(ctx, tx.ID, password); err != nil {
			logger.Error("unlock request failed", zap.String("tx_id", tx.ID), zap.Error(err))
		}
	}
}

func (c *Coordinator) applyDenied(ctx context.Context, txID string) {
	var targets []*model.QueuedTransaction
	if txID == "" {
		targets = c.queue.All()
	} else if tx := c.queue.Get(txID); tx != nil {
		targets = append(targets, tx)
	}

	for _, tx := range targets {
		c.queue.Remove(tx.ID)
		c.registry.Remove(tx.ID)
		if err := c.signer.RequestDiscard(ctx, tx.ID); err != nil {
			logger.Error("discard request failed", zap.String("tx_id", tx.ID), zap.Error(err))
		}
		if tx.MessageID != "" {
			c.dropSubscription(ctx, tx.MessageID)
		}
		c.recordDenied(ctx, tx.ID, tx.MessageID)
		if m := monitor.Business; m != nil {
			m.DiscardedTotal.Inc()
		}
		logger.Info("transaction denied", zap.String("tx_id", tx.ID))
	}

	c.updateQueueDepth()
	c.closeIfIdle(ctx)
}

func (c *Coordinator) applyUnlockResult(ctx context.Context, txID string, raw []byte) {
	tx := c.queue.Get(txID)
	if tx == nil {
		// Unlock completed for a transaction deleted in the interim
		// (denied, hard-failed, duplicate result). Honor it as a no-op.
		logger.Debug("unlock result for unknown transaction ignored", zap.String("tx_id", txID))
		return
	}

	var resp event.UnlockResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		logger.Error("malformed unlock response", zap.String("tx_id", txID), zap.Error(err))
		c.applyFailure(ctx, txID, tx.MessageID, "malformed_response")
		return
	}

	if resp.Error != "" {
		c.applyFailure(ctx, txID, tx.MessageID, resp.Error)
		return
	}

	// Successful unlock ends the current wrong-password streak.
	c.retry.Reset()

	c.queue.Remove(txID)
	c.updateQueueDepth()

	if tx.MessageID == "" {
		// Nothing to correlate; the transaction is done.
		logger.Info("transaction completed without message",
			zap.String("tx_id", txID), zap.String("hash", resp.Hash))
		c.recordCompleted(ctx, txID, resp.Hash)
		c.closeIfIdle(ctx)
		return
	}

	c.registry.Add(txID, tx.MessageID)
	c.registry.SetHash(txID, resp.Hash)
	logger.Info("transaction confirmed, awaiting correlation",
		zap.String("tx_id", txID), zap.String("message_id", tx.MessageID), zap.String("hash", resp.Hash))
	c.correlator.BindHash(tx.MessageID, txID)
	c.closeIfIdle(ctx)
}

func (c *Coordinator) applyFailure(ctx context.Context, txID, messageID, code string) {
	if messageID == "" {
		if tx := c.queue.Get(txID); tx != nil {
			messageID = tx.MessageID
		} else if tx := c.registry.Get(txID); tx != nil {
			messageID = tx.MessageID
		}
	}

	switch Classify(code) {
	case FailureWrongPassword:
		if m := monitor.Business; m != nil {
			m.WrongPasswordTotal.Inc()
		}
		logger.Info("wrong password", zap.String("tx_id", txID), zap.Int("attempt", c.retry.Count()+1))
		if c.retry.OnWrongPassword() {
			// Ceiling reached: reset the surface so the user is not left
			// stuck after repeated failures. The transaction stays queued.
			if m := monitor.Business; m != nil {
				m.RetryResetTotal.Inc()
			}
			if err := c.presenter.HideWrongPassword(ctx); err != nil {
				logger.Error("hide wrong-password signal failed", zap.Error(err))
			}
			if err := c.presenter.ClearPasswordField(ctx); err != nil {
				logger.Error("clear password signal failed", zap.Error(err))
			}
			return
		}
		if err := c.presenter.ShowWrongPassword(ctx); err != nil {
			logger.Error("show wrong-password signal failed", zap.Error(err))
		}

	case FailureDiscarded:
		// The signer already dropped the transaction on its own; there is
		// nothing left to clean up here.
		if m := monitor.Business; m != nil {
			m.DiscardedTotal.Inc()
		}
		logger.Debug("transaction already discarded by signer", zap.String("tx_id", txID))

	case FailureHard:
		if m := monitor.Business; m != nil {
			m.HardFailureTotal.WithLabelValues(code).Inc()
		}
		logger.Warn("unrecoverable unlock failure",
			zap.String("tx_id", txID), zap.String("code", code))

		if messageID != "" {
			c.dropSubscription(ctx, messageID)
		}
		c.queue.Remove(txID)
		c.registry.Remove(txID)
		c.updateQueueDepth()
		c.recordFailed(ctx, txID, messageID, code)

		if c.surfaceOpen {
			c.surfaceOpen = false
			if err := c.presenter.CloseConfirmation(ctx); err != nil {
				logger.Error("close confirmation signal failed", zap.Error(err))
			}
		}
	}
}

// onDeliver is the correlator sink. It runs inside the reduction of the
// event that completed the three-way join, after the subscription, index
// entry, and registry entry have been consumed.
func (c *Coordinator) onDeliver(sub *model.PendingSubscription, txID, hash string) {
	ctx := c.curCtx
	if ctx == nil {
		ctx = context.Background()
	}

	enriched := make(map[string]any, len(sub.HandlerData)+1)
	for k, v := range sub.HandlerData {
		enriched[k] = v
	}
	enriched["transactionHash"] = hash

	c.queue.Remove(txID)
	c.updateQueueDepth()

	if err := c.messenger.DeliverHash(ctx, sub.ChatID, enriched); err != nil {
		// The join already consumed its inputs; a transport error here must
		// not re-arm delivery or the at-most-once guarantee is gone.
		logger.Error("hash delivery failed",
			zap.String("message_id", sub.MessageID), zap.String("tx_id", txID), zap.Error(err))
	} else {
		if m := monitor.Business; m != nil {
			m.HashDeliveredTotal.Inc()
		}
		logger.Info("hash delivered",
			zap.String("message_id", sub.MessageID), zap.String("chat_id", sub.ChatID),
			zap.String("tx_id", txID), zap.String("hash", hash))
	}

	c.recordDelivered(ctx, txID, sub.MessageID, hash)
}

// dropSubscription removes the pending subscription for a message id,
// provided the messaging subsystem still recognizes the conversation. The
// index entry goes regardless, since the transaction is being removed.
func (c *Coordinator) dropSubscription(ctx context.Context, messageID string) {
	if sub := c.correlator.Subscription(messageID); sub != nil {
		if c.messenger.KnowsChat(ctx, sub.ChatID) {
			c.correlator.RemoveSubscription(messageID)
			return
		}
	}
	c.correlator.DropIndex(messageID)
}

func (c *Coordinator) closeIfIdle(ctx context.Context) {
	if c.surfaceOpen && c.queue.Len() == 0 {
		c.surfaceOpen = false
		if err := c.presenter.CloseConfirmation(ctx); err != nil {
			logger.Error("close confirmation signal failed", zap.Error(err))
		}
	}
}

func (c *Coordinator) updateQueueDepth() {
	if m := monitor.Business; m != nil {
		m.QueueDepth.Set(float64(c.queue.Len()))
	}
}

func (c *Coordinator) recordDelivered(ctx context.Context, txID, messageID, hash string) {
	if c.audit == nil {
		return
	}
	if err := c.audit.RecordDelivered(ctx, txID, messageID, hash); err != nil {
		logger.Error("audit write failed", zap.String("tx_id", txID), zap.Error(err))
	}
}

func (c *Coordinator) recordCompleted(ctx context.Context, txID, hash string) {
	if c.audit == nil {
		return
	}
	if err := c.audit.RecordCompleted(ctx, txID, hash); err != nil {
		logger.Error("audit write failed", zap.String("tx_id", txID), zap.Error(err))
	}
}

func (c *Coordinator) recordFailed(ctx context.Context, txID, messageID, code string) {
	if c.audit == nil {
		return
	}
	if err := c.audit.RecordFailed(ctx, txID, messageID, code); err != nil {
		logger.Error("audit write failed", zap.String("tx_id", txID), zap.Error(err))
	}
}

func (c *Coordinator) recordDenied(ctx context.Context, txID, messageID string) {
	if c.audit == nil {
		return
	}
	if err := c.audit.RecordDenied(ctx, txID, messageID); err != nil {
		logger.Error("audit write failed", zap.String("tx_id", txID), zap.Error(err))
	}
}
