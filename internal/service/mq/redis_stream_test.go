package mq

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// The consumer shares the client with the rest of the process; closing the
// consumer must leave the client open for its owner to close.
func TestRedisConsumer_CloseLeavesClientOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	c := NewRedisConsumer(client, "test_group", "consumer-0")

	assert.NoError(t, c.Close())
	assert.NoError(t, client.Close(), "owner's close must be the first close of the client")
}
