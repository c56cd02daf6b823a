package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/presence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client without a real socket; events land in the
// Send channel where tests can read them back.
func newTestClient(userID string, buffer int) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		ID:          uuid.New().String(),
		Identity:    presence.Identity{UserID: userID, Username: userID},
		Send:        make(chan []byte, buffer),
		ConnectedAt: time.Now(),
		ctx:         ctx,
		cancel:      cancel,
		lastSeen:    time.Now(),
	}
}

func recvEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw := <-c.Send:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	default:
		t.Fatal("expected an event but the send buffer is empty")
		return Envelope{}
	}
}

func drain(c *Client) {
	for {
		select {
		case <-c.Send:
		default:
			return
		}
	}
}

func TestHub_ConnectSendsSnapshotAndTransition(t *testing.T) {
	hub := NewHub(presence.NewRegistry())

	a := newTestClient("user-a", 16)
	hub.Connect(a)

	env := recvEnvelope(t, a)
	assert.Equal(t, EventInitialOnlineUsers, env.Event)
	assert.ElementsMatch(t, []any{"user-a"}, env.Payload)

	// First device also sees the global online transition for itself.
	env = recvEnvelope(t, a)
	assert.Equal(t, EventUserStatusChange, env.Event)

	b := newTestClient("user-b", 16)
	hub.Connect(b)

	env = recvEnvelope(t, b)
	assert.Equal(t, EventInitialOnlineUsers, env.Event)
	assert.ElementsMatch(t, []any{"user-a", "user-b"}, env.Payload)

	// user-a is told user-b came online.
	env = recvEnvelope(t, a)
	assert.Equal(t, EventUserStatusChange, env.Event)
	payload := env.Payload.(map[string]any)
	assert.Equal(t, "user-b", payload["userId"])
	assert.Equal(t, true, payload["isOnline"])
}

func TestHub_SecondDeviceNoTransition(t *testing.T) {
	hub := NewHub(presence.NewRegistry())

	observer := newTestClient("observer", 16)
	hub.Connect(observer)
	drain(observer)

	first := newTestClient("user-a", 16)
	second := newTestClient("user-a", 16)
	third := newTestClient("user-a", 16)

	hub.Connect(first)
	env := recvEnvelope(t, observer)
	assert.Equal(t, EventUserStatusChange, env.Event)

	hub.Connect(second)
	hub.Connect(third)
	assert.Empty(t, observer.Send, "additional devices must not re-broadcast the online transition")

	hub.Disconnect(first)
	hub.Disconnect(second)
	assert.Empty(t, observer.Send)

	hub.Disconnect(third)
	env = recvEnvelope(t, observer)
	assert.Equal(t, EventUserStatusChange, env.Event)
	payload := env.Payload.(map[string]any)
	assert.Equal(t, "user-a", payload["userId"])
	assert.Equal(t, false, payload["isOnline"])
}

func TestHub_DisconnectIsIdempotent(t *testing.T) {
	hub := NewHub(presence.NewRegistry())

	observer := newTestClient("observer", 16)
	hub.Connect(observer)

	a := newTestClient("user-a", 16)
	hub.Connect(a)
	drain(observer)

	hub.Disconnect(a)
	hub.Disconnect(a)

	env := recvEnvelope(t, observer)
	assert.Equal(t, EventUserStatusChange, env.Event)
	assert.Empty(t, observer.Send, "duplicate disconnects must not duplicate the offline transition")
}

func TestHub_BroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub(presence.NewRegistry())

	assert.NotPanics(t, func() {
		hub.BroadcastToRoom("no-such-room", EventNewMessage, nil)
	})
}

func TestHub_RoomBroadcastAndJoinIdempotence(t *testing.T) {
	hub := NewHub(presence.NewRegistry())

	a := newTestClient("user-a", 16)
	b := newTestClient("user-b", 16)
	hub.Connect(a)
	hub.Connect(b)
	drain(a)
	drain(b)

	hub.Join(a, "conv-1")
	hub.Join(a, "conv-1") // no-op
	hub.Join(b, "conv-1")

	hub.BroadcastToRoom("conv-1", EventNewMessage, map[string]any{"text": "hi"})

	for _, c := range []*Client{a, b} {
		env := recvEnvelope(t, c)
		assert.Equal(t, EventNewMessage, env.Event)
	}
	assert.Empty(t, a.Send, "joining twice must not deliver twice")
}

func TestHub_BroadcastToRoomExcept(t *testing.T) {
	hub := NewHub(presence.NewRegistry())

	a := newTestClient("user-a", 16)
	b := newTestClient("user-b", 16)
	hub.Connect(a)
	hub.Connect(b)
	drain(a)
	drain(b)

	hub.Join(a, "conv-1")
	hub.Join(b, "conv-1")

	hub.BroadcastToRoomExcept("conv-1", a, EventOnTyping, TypingPayload{UserID: "user-a"})

	env := recvEnvelope(t, b)
	assert.Equal(t, EventOnTyping, env.Event)
	assert.Empty(t, a.Send, "typing relay must exclude the sender")
}

func TestHub_BroadcastToUserHitsEveryDevice(t *testing.T) {
	hub := NewHub(presence.NewRegistry())

	d1 := newTestClient("user-a", 16)
	d2 := newTestClient("user-a", 16)
	other := newTestClient("user-b", 16)
	hub.Connect(d1)
	hub.Connect(d2)
	hub.Connect(other)
	drain(d1)
	drain(d2)
	drain(other)

	hub.BroadcastToUser("user-a", EventNewConversation, map[string]any{"id": "conv-9"})

	for _, c := range []*Client{d1, d2} {
		env := recvEnvelope(t, c)
		assert.Equal(t, EventNewConversation, env.Event)
	}
	assert.Empty(t, other.Send)

	// Unknown users are a silent no-op.
	assert.NotPanics(t, func() {
		hub.BroadcastToUser("nobody", EventNewConversation, nil)
	})
}

func TestHub_SlowConsumerDoesNotBlockOthers(t *testing.T) {
	hub := NewHub(presence.NewRegistry())

	slow := newTestClient("user-slow", 1)
	fast := newTestClient("user-fast", 16)
	hub.Connect(slow)
	hub.Connect(fast)
	drain(fast)
	// Leave slow's buffer full so the next send has nowhere to go.
	for len(slow.Send) < cap(slow.Send) {
		slow.Send <- []byte("{}")
	}

	hub.Join(slow, "conv-1")
	hub.Join(fast, "conv-1")

	done := make(chan struct{})
	go func() {
		hub.BroadcastToRoom("conv-1", EventNewMessage, map[string]any{"text": "hi"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow consumer")
	}

	env := recvEnvelope(t, fast)
	assert.Equal(t, EventNewMessage, env.Event)
}

func TestHub_Stats(t *testing.T) {
	hub := NewHub(presence.NewRegistry())

	a := newTestClient("user-a", 16)
	hub.Connect(a)
	hub.Join(a, "conv-1")

	stats := hub.GetHubStats()
	assert.Equal(t, 1, stats.TotalClients)
	assert.Equal(t, 1, stats.TotalRooms)
	assert.EqualValues(t, 1, stats.TotalConnections)

	roomStats := hub.GetRoomStats("conv-1")
	assert.Equal(t, true, roomStats["exists"])
	assert.Equal(t, 1, roomStats["unique_users"])

	missing := hub.GetRoomStats("nope")
	assert.Equal(t, false, missing["exists"])
}
