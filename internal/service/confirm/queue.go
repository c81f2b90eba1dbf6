package confirm

import "confirm-core/internal/model"

// Queue holds transactions awaiting the user's accept/deny decision, keyed
// by transaction id. Not safe for concurrent use; it is owned by the
// coordinator's event loop.
type Queue struct {
	txs   map[string]*model.QueuedTransaction
	order []string // insertion order, so unlock requests go out deterministically
}

func NewQueue() *Queue {
	return &Queue{
		txs: make(map[string]*model.QueuedTransaction),
	}
}

// Enqueue inserts a transaction. Re-queueing a known id is a no-op.
func (q *Queue) Enqueue(tx *model.QueuedTransaction) bool {
	if _, ok := q.txs[tx.ID]; ok {
		return false
	}
	q.txs[tx.ID] = tx
	q.order = append(q.order, tx.ID)
	return true
}

// Get returns the queued transaction or nil.
func (q *Queue) Get(id string) *model.QueuedTransaction {
	return q.txs[id]
}

// Remove deletes the transaction. Safe to call for absent ids.
func (q *Queue) Remove(id string) bool {
	if _, ok := q.txs[id]; !ok {
		return false
	}
	delete(q.txs, id)
	for i, qid := range q.order {
		if qid == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns the queued transactions in insertion order.
func (q *Queue) All() []*model.QueuedTransaction {
	out := make([]*model.QueuedTransaction, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, q.txs[id])
	}
	return out
}

func (q *Queue) Has(id string) bool {
	_, ok := q.txs[id]
	return ok
}

func (q *Queue) Len() int {
	return len(q.txs)
}
