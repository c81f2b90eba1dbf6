package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confirm-core/internal/service/mq"
)

func TestDecodeQueued(t *testing.T) {
	msg := &mq.Message{Payload: []byte(`{
		"id": "tx1",
		"message_id": "m1",
		"from_address": "0x1111111111111111111111111111111111111111",
		"to_address": "0x2222222222222222222222222222222222222222",
		"value": "1.5"
	}`)}

	ev, err := decodeQueued(msg)
	require.NoError(t, err)

	queued, ok := ev.(TransactionQueued)
	require.True(t, ok)
	assert.Equal(t, "tx1", queued.Tx.ID)
	assert.Equal(t, "m1", queued.Tx.MessageID)
	assert.Equal(t, "1.5", queued.Tx.Value.String())
}

func TestDecodeQueued_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"id":`},
		{"bad value", `{"id":"tx1","value":"not-a-number"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeQueued(&mq.Message{Payload: []byte(tt.payload)})
			assert.Error(t, err)
		})
	}
}

func TestDecodeUnlockFailed(t *testing.T) {
	msg := &mq.Message{Payload: []byte(`{"id":"tx1","message_id":"m1","code":"2"}`)}

	ev, err := decodeUnlockFailed(msg)
	require.NoError(t, err)

	failed, ok := ev.(UnlockFailed)
	require.True(t, ok)
	assert.Equal(t, "tx1", failed.TxID)
	assert.Equal(t, string(CodeWrongPassword), failed.Code)
}

func TestDecodeSubscription(t *testing.T) {
	msg := &mq.Message{Payload: []byte(`{
		"message_id": "m1",
		"chat_id": "chatA",
		"handler_data": {"command": "send"}
	}`)}

	ev, err := decodeSubscription(msg)
	require.NoError(t, err)

	sub, ok := ev.(SubscriptionRegistered)
	require.True(t, ok)
	assert.Equal(t, "chatA", sub.Sub.ChatID)
	assert.Equal(t, "send", sub.Sub.HandlerData["command"])
}
