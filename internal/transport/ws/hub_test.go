package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manova/internal/platform/logger"
)

func recv(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubPublishReachesUser(t *testing.T) {
	h := NewHub(logger.NewNop())

	conn := &Connection{UserID: "user-1", Send: make(chan []byte, 4), Hub: h}
	h.Register(conn)

	h.Publish("user-1", "trigger_decision", map[string]string{"priority": "high"})

	var msg Message
	require.NoError(t, json.Unmarshal(recv(t, conn.Send), &msg))
	assert.Equal(t, "trigger_decision", msg.Event)
	assert.JSONEq(t, `{"priority":"high"}`, string(msg.Payload))
}

func TestHubPublishFansOutToAllConnections(t *testing.T) {
	h := NewHub(logger.NewNop())

	a := &Connection{UserID: "user-1", Send: make(chan []byte, 4), Hub: h}
	b := &Connection{UserID: "user-1", Send: make(chan []byte, 4), Hub: h}
	h.Register(a)
	h.Register(b)

	h.Publish("user-1", "analysis_started", nil)

	assert.NotNil(t, recv(t, a.Send))
	assert.NotNil(t, recv(t, b.Send))
}

func TestHubIsolatesUsers(t *testing.T) {
	h := NewHub(logger.NewNop())

	a := &Connection{UserID: "user-1", Send: make(chan []byte, 4), Hub: h}
	b := &Connection{UserID: "user-2", Send: make(chan []byte, 4), Hub: h}
	h.Register(a)
	h.Register(b)

	h.Publish("user-1", "analysis_started", nil)

	assert.NotNil(t, recv(t, a.Send))
	select {
	case <-b.Send:
		t.Fatal("user-2 must not receive user-1's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	h := NewHub(logger.NewNop())

	conn := &Connection{UserID: "user-1", Send: make(chan []byte, 4), Hub: h}
	h.Register(conn)
	h.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// Publishing after disconnect must not panic.
	h.Publish("user-1", "analysis_started", nil)
}
