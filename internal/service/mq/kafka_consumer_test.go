package mq

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Topics are bound from one goroutine each, so concurrent Subscribe calls
// must all land in the reader list Close walks.
func TestKafkaConsumer_ConcurrentSubscribe(t *testing.T) {
	c := NewKafkaConsumer([]string{"127.0.0.1:1"}, "test_group")

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // consume loops exit on first fetch

	topics := []string{"topic_a", "topic_b", "topic_c", "topic_d"}
	var wg sync.WaitGroup
	for _, topic := range topics {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			require.NoError(t, c.Subscribe(ctx, topic, func(msg *Message) error { return nil }))
		}(topic)
	}
	wg.Wait()

	c.mu.Lock()
	registered := len(c.readers)
	c.mu.Unlock()
	assert.Equal(t, len(topics), registered, "every subscribed reader must be tracked for Close")

	assert.NoError(t, c.Close())
}
