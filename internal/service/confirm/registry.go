package confirm

import "confirm-core/internal/model"

// Registry holds transactions whose unlock completed, keyed by transaction
// id, until their hash has been delivered. Owned by the coordinator's event
// loop, like the queue.
type Registry struct {
	txs map[string]*model.ConfirmedTransaction
}

func NewRegistry() *Registry {
	return &Registry{
		txs: make(map[string]*model.ConfirmedTransaction),
	}
}

// Add records a confirmed transaction. An existing entry is kept as is.
func (r *Registry) Add(id, messageID string) *model.ConfirmedTransaction {
	if tx, ok := r.txs[id]; ok {
		return tx
	}
	tx := &model.ConfirmedTransaction{ID: id, MessageID: messageID}
	r.txs[id] = tx
	return tx
}

// SetHash stores the resulting hash against the transaction id.
func (r *Registry) SetHash(id, hash string) bool {
	tx, ok := r.txs[id]
	if !ok {
		return false
	}
	tx.Hash = hash
	return true
}

// Get returns the confirmed transaction or nil.
func (r *Registry) Get(id string) *model.ConfirmedTransaction {
	return r.txs[id]
}

// Remove deletes the transaction. Safe to call for absent ids.
func (r *Registry) Remove(id string) bool {
	if _, ok := r.txs[id]; !ok {
		return false
	}
	delete(r.txs, id)
	return true
}

func (r *Registry) Has(id string) bool {
	_, ok := r.txs[id]
	return ok
}

func (r *Registry) Len() int {
	return len(r.txs)
}
