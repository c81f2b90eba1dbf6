package confirm

import "confirm-core/internal/model"

// Event is one inbound fact for the coordinator's reduction loop. The set
// is closed; each variant maps onto exactly one state transition.
type Event interface {
	isEvent()
}

// TransactionQueued: the signing service announced a transaction awaiting
// approval.
type TransactionQueued struct {
	Tx model.QueuedTransaction
}

// Accepted: the user accepted the whole queue with a password.
type Accepted struct {
	Password string
}

// Denied: the user denied one transaction (TxID set) or the whole queue
// (TxID empty).
type Denied struct {
	TxID string
}

// UnlockResult: the signing service finished an unlock attempt. Raw is the
// opaque serialized response, parsed by the coordinator.
type UnlockResult struct {
	TxID string
	Raw  []byte
}

// UnlockFailed: the signing service reported a failure with an error code.
type UnlockFailed struct {
	TxID      string
	MessageID string
	Code      string
}

// SubscriptionRegistered: the messaging subsystem registered interest in a
// message id.
type SubscriptionRegistered struct {
	Sub model.PendingSubscription
}

// queueQuery: internal read of the queue snapshot, answered on Reply so the
// HTTP layer never touches loop-owned state.
type queueQuery struct {
	Reply chan []model.QueuedTransaction
}

func (TransactionQueued) isEvent()      {}
func (Accepted) isEvent()               {}
func (Denied) isEvent()                 {}
func (UnlockResult) isEvent()           {}
func (UnlockFailed) isEvent()           {}
func (SubscriptionRegistered) isEvent() {}
func (queueQuery) isEvent()             {}
