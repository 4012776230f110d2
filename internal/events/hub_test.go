package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_When_Emit_Then_SubscribersReceiveEnvelope(t *testing.T) {
	t.Parallel()
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Emit("req-1", ResultsUpdated, map[string]int{"matched": 3})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(<-ch), &e))
	assert.Equal(t, ResultsUpdated, e.Type)
	assert.Equal(t, 1, e.Version)
	assert.Equal(t, "req-1", e.RequestID)
	assert.NotEmpty(t, e.ID)
	assert.JSONEq(t, `{"matched":3}`, string(e.Data))
}

func TestHub_When_SubscriberFull_Then_PublishDoesNotBlock(t *testing.T) {
	t.Parallel()
	h := NewHub()
	ch := h.Subscribe()

	for i := 0; i < 50; i++ {
		h.Publish("x")
	}
	assert.Len(t, ch, cap(ch))

	h.Unsubscribe(ch)
	h.Unsubscribe(ch)
	assert.Zero(t, h.Subscribers())
}

func TestHub_When_Nil_Then_EmitIsNoop(t *testing.T) {
	t.Parallel()
	var h *Hub
	assert.NotPanics(t, func() { h.Emit("", PicksSaved, nil) })
}
