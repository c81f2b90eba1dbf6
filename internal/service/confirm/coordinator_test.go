package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confirm-core/internal/event"
	"confirm-core/internal/model"
	"confirm-core/pkg/monitor"
)

type unlockCall struct {
	txID     string
	password string
}

type fakeSigner struct {
	unlocks  []unlockCall
	discards []string
}

func (s *fakeSigner) RequestUnlock(ctx context.Context, txID, password string) error {
	s.unlocks = append(s.unlocks, unlockCall{txID: txID, password: password})
	return nil
}

func (s *fakeSigner) RequestDiscard(ctx context.Context, txID string) error {
	s.discards = append(s.discards, txID)
	return nil
}

type deliveredCall struct {
	chatID      string
	handlerData map[string]any
}

type fakeMessenger struct {
	deliveries []deliveredCall
	deliverErr error
	knowsChat  bool
}

func (m *fakeMessenger) DeliverHash(ctx context.Context, chatID string, handlerData map[string]any) error {
	m.deliveries = append(m.deliveries, deliveredCall{chatID: chatID, handlerData: handlerData})
	return m.deliverErr
}

func (m *fakeMessenger) KnowsChat(ctx context.Context, chatID string) bool {
	return m.knowsChat
}

type fakePresenter struct {
	signals []string
}

func (p *fakePresenter) record(s string) error {
	p.signals = append(p.signals, s)
	return nil
}

func (p *fakePresenter) OpenConfirmation(ctx context.Context) error  { return p.record("open") }
func (p *fakePresenter) CloseConfirmation(ctx context.Context) error { return p.record("close") }
func (p *fakePresenter) ShowWrongPassword(ctx context.Context) error {
	return p.record("show_wrong_password")
}
func (p *fakePresenter) HideWrongPassword(ctx context.Context) error {
	return p.record("hide_wrong_password")
}
func (p *fakePresenter) ClearPasswordField(ctx context.Context) error {
	return p.record("clear_password")
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeSigner, *fakeMessenger, *fakePresenter) {
	t.Helper()
	signer := &fakeSigner{}
	messenger := &fakeMessenger{knowsChat: true}
	presenter := &fakePresenter{}
	c := NewCoordinator(Options{RetryCeiling: 3}, signer, messenger, presenter, nil)
	return c, signer, messenger, presenter
}

func queuedTx(id, to, messageID string) model.QueuedTransaction {
	return model.QueuedTransaction{
		ID:          id,
		FromAddress: "0x1111111111111111111111111111111111111111",
		ToAddress:   to,
		Value:       decimal.NewFromInt(1),
		MessageID:   messageID,
	}
}

func successResult(t *testing.T, hash string) []byte {
	t.Helper()
	raw, err := json.Marshal(event.UnlockResponse{Hash: hash})
	require.NoError(t, err)
	return raw
}

const validAddr = "0x2222222222222222222222222222222222222222"

func TestCoordinator_RejectsMalformedDestination(t *testing.T) {
	c, signer, _, presenter := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", "not-an-address", "")})

	assert.False(t, c.queue.Has("tx1"), "invalid destination never enters the queue")
	assert.Equal(t, []string{"tx1"}, signer.discards)
	assert.Empty(t, presenter.signals, "no confirmation surface for a rejected transaction")
}

func TestCoordinator_QueueOpensSurfaceOnce(t *testing.T) {
	c, _, _, presenter := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "")})
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx2", validAddr, "")})

	assert.Equal(t, []string{"open"}, presenter.signals)
	assert.Equal(t, 2, c.queue.Len())
}

func TestCoordinator_DuplicateQueuedIgnored(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})

	assert.Equal(t, 1, c.queue.Len())
}

func TestCoordinator_AcceptIssuesUnlockPerQueuedTx(t *testing.T) {
	c, signer, _, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "")})
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx2", validAddr, "")})
	c.Apply(ctx, Accepted{Password: "pw"})

	assert.Equal(t, []unlockCall{{"tx1", "pw"}, {"tx2", "pw"}}, signer.unlocks)
	assert.Equal(t, 2, c.queue.Len(), "transactions stay queued until the unlock completes")
}

// The hash can arrive before the messaging subsystem registers its
// subscription; the registry parks it until then.
func TestCoordinator_HashBeforeSubscription(t *testing.T) {
	c, _, messenger, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, Accepted{Password: "pw"})
	c.Apply(ctx, UnlockResult{TxID: "tx1", Raw: successResult(t, "0x111")})

	assert.Empty(t, messenger.deliveries, "no subscription yet")
	assert.True(t, c.registry.Has("tx1"), "hash parked in the registry")
	assert.False(t, c.queue.Has("tx1"))

	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{
		MessageID: "m1", ChatID: "chatA", HandlerData: map[string]any{},
	}})

	require.Len(t, messenger.deliveries, 1)
	assert.Equal(t, "chatA", messenger.deliveries[0].chatID)
	assert.Equal(t, "0x111", messenger.deliveries[0].handlerData["transactionHash"])
	assert.False(t, c.registry.Has("tx1"), "delivery removes the transaction from the registry")
}

func TestCoordinator_SubscriptionBeforeHash(t *testing.T) {
	c, _, messenger, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{
		MessageID: "m1", ChatID: "chatA", HandlerData: map[string]any{"command": "send"},
	}})
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, Accepted{Password: "pw"})
	c.Apply(ctx, UnlockResult{TxID: "tx1", Raw: successResult(t, "0x111")})

	require.Len(t, messenger.deliveries, 1)
	assert.Equal(t, map[string]any{
		"command":         "send",
		"transactionHash": "0x111",
	}, messenger.deliveries[0].handlerData, "payload identical regardless of arrival order")
}

func TestCoordinator_DeliveryAtMostOnce(t *testing.T) {
	c, _, messenger, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, Accepted{Password: "pw"})
	c.Apply(ctx, UnlockResult{TxID: "tx1", Raw: successResult(t, "0x111")})
	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{MessageID: "m1", ChatID: "chatA"}})

	// Duplicate completion and a re-registered subscription must not
	// produce a second delivery.
	c.Apply(ctx, UnlockResult{TxID: "tx1", Raw: successResult(t, "0x111")})
	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{MessageID: "m1", ChatID: "chatA"}})

	assert.Len(t, messenger.deliveries, 1)
}

func TestCoordinator_DeliveryErrorNotCountedAsDelivered(t *testing.T) {
	if monitor.Business == nil {
		monitor.InitBusinessMetrics()
	}
	delivered := func() float64 { return testutil.ToFloat64(monitor.Business.HashDeliveredTotal) }

	c, _, messenger, _ := newTestCoordinator(t)
	messenger.deliverErr = errors.New("chat unreachable")
	ctx := context.Background()

	before := delivered()
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, Accepted{Password: "pw"})
	c.Apply(ctx, UnlockResult{TxID: "tx1", Raw: successResult(t, "0x111")})
	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{MessageID: "m1", ChatID: "chatA"}})

	require.Len(t, messenger.deliveries, 1, "the attempt still happens")
	assert.Equal(t, before, delivered(), "a failed delivery is not a delivery")

	// The join stays consumed; the transport error never re-arms it.
	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{MessageID: "m1", ChatID: "chatA"}})
	assert.Len(t, messenger.deliveries, 1)
}

func TestCoordinator_DeliveryCountedOnSuccess(t *testing.T) {
	if monitor.Business == nil {
		monitor.InitBusinessMetrics()
	}
	delivered := func() float64 { return testutil.ToFloat64(monitor.Business.HashDeliveredTotal) }

	c, _, messenger, _ := newTestCoordinator(t)
	ctx := context.Background()

	before := delivered()
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, Accepted{Password: "pw"})
	c.Apply(ctx, UnlockResult{TxID: "tx1", Raw: successResult(t, "0x111")})
	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{MessageID: "m1", ChatID: "chatA"}})

	require.Len(t, messenger.deliveries, 1)
	assert.Equal(t, before+1, delivered())
}

func TestCoordinator_NoMessageDiscardsImmediately(t *testing.T) {
	c, _, messenger, presenter := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx2", validAddr, "")})
	c.Apply(ctx, Accepted{Password: "pw"})
	c.Apply(ctx, UnlockResult{TxID: "tx2", Raw: successResult(t, "0x222")})

	assert.False(t, c.queue.Has("tx2"))
	assert.False(t, c.registry.Has("tx2"), "nothing to correlate, removed everywhere")
	assert.Empty(t, messenger.deliveries)
	assert.Contains(t, presenter.signals, "close", "queue drained, surface closes")
}

func TestCoordinator_WrongPasswordCeiling(t *testing.T) {
	c, _, _, presenter := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "")})
	presenter.signals = nil

	c.Apply(ctx, UnlockFailed{TxID: "tx1", Code: string(CodeWrongPassword)})
	assert.Equal(t, 1, c.retry.Count())
	assert.Equal(t, []string{"show_wrong_password"}, presenter.signals)

	c.Apply(ctx, UnlockFailed{TxID: "tx1", Code: string(CodeWrongPassword)})
	assert.Equal(t, 2, c.retry.Count())

	presenter.signals = nil
	c.Apply(ctx, UnlockFailed{TxID: "tx1", Code: string(CodeWrongPassword)})

	assert.Equal(t, 0, c.retry.Count(), "ceiling resets the counter")
	assert.Equal(t, []string{"hide_wrong_password", "clear_password"}, presenter.signals)
	assert.True(t, c.queue.Has("tx1"), "transaction stays queued for a further attempt")
}

func TestCoordinator_SuccessResetsRetryCounter(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "")})
	c.Apply(ctx, UnlockFailed{TxID: "tx1", Code: string(CodeWrongPassword)})
	assert.Equal(t, 1, c.retry.Count())

	c.Apply(ctx, UnlockResult{TxID: "tx1", Raw: successResult(t, "0x111")})
	assert.Equal(t, 0, c.retry.Count())
}

func TestCoordinator_SignerDiscardIsNoOp(t *testing.T) {
	c, signer, _, presenter := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "")})
	presenter.signals = nil

	c.Apply(ctx, UnlockFailed{TxID: "tx1", Code: string(CodeDiscarded)})

	assert.True(t, c.queue.Has("tx1"), "signer already handled it, no local change")
	assert.Empty(t, presenter.signals)
	assert.Empty(t, signer.discards)
}

func TestCoordinator_HardFailureCleanup(t *testing.T) {
	c, _, messenger, presenter := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{MessageID: "m1", ChatID: "chatA"}})
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, UnlockFailed{TxID: "tx1", MessageID: "m1", Code: "99"})

	assert.False(t, c.queue.Has("tx1"))
	assert.False(t, c.registry.Has("tx1"))
	assert.Nil(t, c.correlator.Subscription("m1"), "pending subscription dropped")
	assert.Contains(t, presenter.signals, "close")
	assert.Empty(t, messenger.deliveries)
}

func TestCoordinator_HardFailureKeepsSubscriptionOfUnknownChat(t *testing.T) {
	c, _, messenger, _ := newTestCoordinator(t)
	messenger.knowsChat = false
	ctx := context.Background()

	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{MessageID: "m1", ChatID: "gone"}})
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, UnlockFailed{TxID: "tx1", MessageID: "m1", Code: "99"})

	assert.NotNil(t, c.correlator.Subscription("m1"), "unknown conversation leaves the subscription alone")
}

func TestCoordinator_UnknownFailureCodeIsHard(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "")})
	c.Apply(ctx, UnlockFailed{TxID: "tx1", Code: "totally-new-code"})

	assert.False(t, c.queue.Has("tx1"), "unknown codes fall into the unrecoverable branch")
}

func TestCoordinator_DenyAllCleansUp(t *testing.T) {
	c, signer, _, presenter := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, SubscriptionRegistered{Sub: model.PendingSubscription{MessageID: "m1", ChatID: "chatA"}})
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx2", validAddr, "")})

	c.Apply(ctx, Denied{})

	assert.Equal(t, 0, c.queue.Len())
	assert.ElementsMatch(t, []string{"tx1", "tx2"}, signer.discards)
	assert.Nil(t, c.correlator.Subscription("m1"))
	assert.Contains(t, presenter.signals, "close")
}

func TestCoordinator_DenySingle(t *testing.T) {
	c, signer, _, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "")})
	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx2", validAddr, "")})

	c.Apply(ctx, Denied{TxID: "tx1"})

	assert.False(t, c.queue.Has("tx1"))
	assert.True(t, c.queue.Has("tx2"))
	assert.Equal(t, []string{"tx1"}, signer.discards)
}

func TestCoordinator_LateResultForDeletedTransaction(t *testing.T) {
	c, _, messenger, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")})
	c.Apply(ctx, Denied{TxID: "tx1"})

	// The unlock was already in flight; its completion is honored as a
	// no-op rather than an error.
	c.Apply(ctx, UnlockResult{TxID: "tx1", Raw: successResult(t, "0x111")})

	assert.Empty(t, messenger.deliveries)
	assert.False(t, c.registry.Has("tx1"))
}

func TestCoordinator_ErrorResponseClassified(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	ctx := context.Background()

	c.Apply(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "")})

	raw, err := json.Marshal(event.UnlockResponse{Error: "2"})
	require.NoError(t, err)
	c.Apply(ctx, UnlockResult{TxID: "tx1", Raw: raw})

	assert.Equal(t, 1, c.retry.Count(), "error string routes through failure classification")
	assert.True(t, c.queue.Has("tx1"))
}

func TestCoordinator_QueueSnapshotThroughRunLoop(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	require.NoError(t, c.Dispatch(ctx, TransactionQueued{Tx: queuedTx("tx1", validAddr, "m1")}))

	txs, err := c.QueueSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "tx1", txs[0].ID)
	assert.Equal(t, "m1", txs[0].MessageID)
}
