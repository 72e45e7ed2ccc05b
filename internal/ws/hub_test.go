package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, c *Client) (string, json.RawMessage) {
	t.Helper()
	select {
	case payload := <-c.Send():
		var env struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(payload, &env))
		return env.Type, env.Data
	default:
		t.Fatal("expected a buffered payload")
		return "", nil
	}
}

func TestPublishReachesAllClients(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := h.Register()
	b := h.Register()
	require.Equal(t, 2, h.ClientCount())

	h.Publish(EpochEvent{Epoch: 3})

	for _, c := range []*Client{a, b} {
		name, data := receive(t, c)
		assert.Equal(t, "epoch-update", name)
		var e EpochEvent
		require.NoError(t, json.Unmarshal(data, &e))
		assert.Equal(t, 3, e.Epoch)
	}
}

func TestSendToTargetsOneClient(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := h.Register()
	b := h.Register()

	h.SendTo(a.ID, AckEvent{Index: 1})

	name, _ := receive(t, a)
	assert.Equal(t, "ack", name)
	select {
	case <-b.Send():
		t.Fatal("other client must not receive a targeted event")
	default:
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := NewHub(zap.NewNop())
	a := h.Register()
	b := h.Register()

	h.Unregister(a.ID)
	assert.Equal(t, 1, h.ClientCount())

	h.Publish(SessionEndedEvent{Reason: "ended"})
	select {
	case <-a.Send():
		t.Fatal("unregistered client must not receive events")
	default:
	}
	name, _ := receive(t, b)
	assert.Equal(t, "session-ended", name)

	// unknown ids are ignored
	h.SendTo("nope", AckEvent{})
	h.Unregister("nope")
}
