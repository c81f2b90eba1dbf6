package mq

import "context"

// Message is a generic business message.
type Message struct {
	ID       string            // message id (e.g. Redis Stream ID)
	Topic    string            // topic (e.g. "signer_events_result")
	Key      string            // partition key (e.g. transaction id), also the Kafka partition key
	Payload  []byte            // body (JSON)
	Metadata map[string]string // metadata
}

// Producer publishes messages.
type Producer interface {
	// Publish sends a message.
	// key: partition key for ordering (e.g. transaction id). Empty string
	// means any partition.
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}

// Consumer subscribes to topics.
type Consumer interface {
	// Subscribe registers a handler for the topic.
	// A handler error triggers redelivery.
	Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error

	// Close shuts down the consumer.
	Close() error
}
