package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageKeyAndEnvelope(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg, err := NewMessage(OrderPaid, "66f0c0ffee", map[string]string{"status": "PAYED"}, now)
	require.NoError(t, err)

	assert.Equal(t, "order.paid.66f0c0ffee", string(msg.Key))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "paid", env.Type)
	assert.Equal(t, "66f0c0ffee", env.ID)
	assert.True(t, now.Equal(env.OccurredAt))
}

func TestNoopPublisher(t *testing.T) {
	var p Noop
	assert.NoError(t, p.Publish(context.Background(), OrderCreated, "1", nil))
	assert.NoError(t, p.Close())
}
