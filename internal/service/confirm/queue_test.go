package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"confirm-core/internal/model"
)

func TestQueue_EnqueueAndDuplicate(t *testing.T) {
	q := NewQueue()

	assert.True(t, q.Enqueue(&model.QueuedTransaction{ID: "tx1"}))
	assert.False(t, q.Enqueue(&model.QueuedTransaction{ID: "tx1"}), "re-queueing a known id is a no-op")
	assert.Equal(t, 1, q.Len())
	assert.True(t, q.Has("tx1"))
}

func TestQueue_RemoveIdempotent(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&model.QueuedTransaction{ID: "tx1"})

	assert.True(t, q.Remove("tx1"))
	assert.False(t, q.Remove("tx1"))
	assert.False(t, q.Remove("unknown"))
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Get("tx1"))
}

func TestQueue_InsertionOrder(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&model.QueuedTransaction{ID: "a"})
	q.Enqueue(&model.QueuedTransaction{ID: "b"})
	q.Enqueue(&model.QueuedTransaction{ID: "c"})
	q.Remove("b")

	all := q.All()
	ids := make([]string, 0, len(all))
	for _, tx := range all {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
}
