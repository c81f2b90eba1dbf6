package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_AddAndSetHash(t *testing.T) {
	r := NewRegistry()

	tx := r.Add("tx1", "m1")
	assert.Equal(t, "m1", tx.MessageID)
	assert.True(t, r.SetHash("tx1", "0x111"))
	assert.Equal(t, "0x111", r.Get("tx1").Hash)

	// Adding again keeps the existing entry.
	again := r.Add("tx1", "other")
	assert.Equal(t, "m1", again.MessageID)
	assert.Equal(t, "0x111", again.Hash)
}

func TestRegistry_RemoveIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Add("tx1", "m1")

	assert.True(t, r.Remove("tx1"))
	assert.False(t, r.Remove("tx1"))
	assert.False(t, r.SetHash("tx1", "0x111"), "hash write on absent entry is a no-op")
	assert.Nil(t, r.Get("tx1"))
}
