package confirm

import "confirm-core/internal/model"

// DeliverFunc receives the joined subscription/hash pair exactly once per
// message id. By the time it runs, the subscription, the index entry, and
// the registry entry are already gone, so re-entry cannot double-deliver.
type DeliverFunc func(sub *model.PendingSubscription, txID, hash string)

// Correlator matches a completed transaction's hash with the pending
// message that requested it. Delivery needs a three-way join: the message
// index entry, the registry hash, and the subscription. Either contributing
// fact (hash arrival, subscription registration) may land first, so both
// paths funnel into the same idempotent TryDeliver.
type Correlator struct {
	registry *Registry
	subs     map[string]*model.PendingSubscription
	index    map[string]string // message id -> transaction id
	deliver  DeliverFunc
}

func NewCorrelator(registry *Registry, deliver DeliverFunc) *Correlator {
	return &Correlator{
		registry: registry,
		subs:     make(map[string]*model.PendingSubscription),
		index:    make(map[string]string),
		deliver:  deliver,
	}
}

// Register records a subscription and immediately re-checks the join, in
// case the hash arrived before the messaging subsystem registered interest.
func (c *Correlator) Register(sub *model.PendingSubscription) {
	c.subs[sub.MessageID] = sub
	c.TryDeliver(sub.MessageID)
}

// BindHash indexes message id -> transaction id once the hash is known and
// re-checks the join from the other direction.
func (c *Correlator) BindHash(messageID, txID string) {
	c.index[messageID] = txID
	c.TryDeliver(messageID)
}

// TryDeliver performs the three-way join. Delivery proceeds only when the
// index entry, the registry hash, and the subscription are all present;
// anything missing makes this a no-op. On delivery all three are consumed
// before the sink runs, which is what makes the operation at-most-once.
func (c *Correlator) TryDeliver(messageID string) bool {
	txID, ok := c.index[messageID]
	if !ok {
		return false
	}
	tx := c.registry.Get(txID)
	if tx == nil || tx.Hash == "" {
		return false
	}
	sub, ok := c.subs[messageID]
	if !ok {
		return false
	}

	delete(c.subs, messageID)
	delete(c.index, messageID)
	c.registry.Remove(txID)

	c.deliver(sub, txID, tx.Hash)
	return true
}

// Subscription returns the pending subscription for the message id, or nil.
func (c *Correlator) Subscription(messageID string) *model.PendingSubscription {
	return c.subs[messageID]
}

// RemoveSubscription drops a subscription that will never be fulfilled
// (deny or hard failure). A consumed or unknown message id is a no-op.
func (c *Correlator) RemoveSubscription(messageID string) bool {
	if _, ok := c.subs[messageID]; !ok {
		return false
	}
	delete(c.subs, messageID)
	delete(c.index, messageID)
	return true
}

// DropIndex removes the message id -> transaction id binding without
// touching the subscription.
func (c *Correlator) DropIndex(messageID string) {
	delete(c.index, messageID)
}
