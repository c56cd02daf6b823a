package presence

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_FirstAndLastDevice(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Register("user-a", "conn-1"), "first device should report the online transition")
	assert.False(t, r.Register("user-a", "conn-2"), "second device should not")
	assert.False(t, r.Register("user-a", "conn-3"))

	assert.False(t, r.Deregister("user-a", "conn-1"))
	assert.False(t, r.Deregister("user-a", "conn-2"))
	assert.True(t, r.Deregister("user-a", "conn-3"), "last device should report the offline transition")

	assert.False(t, r.IsOnline("user-a"))
	assert.Empty(t, r.OnlineUsers())
}

func TestRegistry_ReconnectStartsNewRun(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Register("user-a", "conn-1"))
	assert.True(t, r.Deregister("user-a", "conn-1"))

	// A fresh run of connections fires the online transition again.
	assert.True(t, r.Register("user-a", "conn-2"))
	assert.True(t, r.Deregister("user-a", "conn-2"))
}

func TestRegistry_DeregisterUnknownIsNoop(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.Deregister("ghost", "conn-1"))

	r.Register("user-a", "conn-1")
	assert.False(t, r.Deregister("user-a", "never-registered"))
	assert.True(t, r.IsOnline("user-a"))

	// Duplicate disconnect signals for the same connection.
	assert.True(t, r.Deregister("user-a", "conn-1"))
	assert.False(t, r.Deregister("user-a", "conn-1"))
}

func TestRegistry_RegisterSameConnTwice(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Register("user-a", "conn-1"))
	assert.False(t, r.Register("user-a", "conn-1"), "duplicate register must not fire a second transition")

	assert.Len(t, r.Connections("user-a"), 1)
}

func TestRegistry_ConnectionsKeepConnectOrder(t *testing.T) {
	r := NewRegistry()

	r.Register("user-a", "conn-1")
	r.Register("user-a", "conn-2")
	r.Register("user-a", "conn-3")

	assert.Equal(t, []string{"conn-1", "conn-2", "conn-3"}, r.Connections("user-a"))

	r.Deregister("user-a", "conn-2")
	assert.Equal(t, []string{"conn-1", "conn-3"}, r.Connections("user-a"))
}

func TestRegistry_OnlineUsersSnapshot(t *testing.T) {
	r := NewRegistry()

	r.Register("user-a", "conn-1")
	r.Register("user-b", "conn-2")
	r.Register("user-b", "conn-3")

	users := r.OnlineUsers()
	assert.ElementsMatch(t, []string{"user-a", "user-b"}, users)
	assert.Equal(t, 2, r.OnlineCount())
}

func TestRegistry_ConcurrentSameUser(t *testing.T) {
	r := NewRegistry()

	const devices = 64
	var onlineSignals atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < devices; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if r.Register("user-a", fmt.Sprintf("conn-%d", n)) {
				onlineSignals.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 1, onlineSignals.Load(), "exactly one online transition for concurrently connecting devices")
	require.Len(t, r.Connections("user-a"), devices)

	var offlineSignals atomic.Int64
	for i := 0; i < devices; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if r.Deregister("user-a", fmt.Sprintf("conn-%d", n)) {
				offlineSignals.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 1, offlineSignals.Load(), "exactly one offline transition when the last device leaves")
	require.False(t, r.IsOnline("user-a"))
}
