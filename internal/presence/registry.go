package presence

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Identity is the normalized claim set attached to a connection after a
// successful handshake.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// Registry tracks which users currently have at least one live connection.
// It is the single owner of the online/offline view: an entry exists exactly
// while its connection list is non-empty, and the 0→1 / 1→0 transitions are
// reported atomically from Register/Deregister so a user going online or
// offline is signalled exactly once no matter how their devices interleave.
type Registry struct {
	mu      sync.Mutex
	entries map[string][]string // userID -> connection ids, in connect order
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string][]string),
	}
}

// Register adds a connection for the user and reports whether it is the
// user's first active connection, i.e. the caller must broadcast a
// "went online" transition.
func (r *Registry) Register(userID, connID string) (first bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.entries[userID]
	for _, id := range conns {
		if id == connID {
			return false
		}
	}
	r.entries[userID] = append(conns, connID)

	log.Debug().Str("userID", userID).Str("connID", connID).Int("devices", len(conns)+1).Msg("presence: connection registered")
	return len(conns) == 0
}

// Deregister removes a connection for the user and reports whether the user
// just went offline. Removing an unknown connection id is a no-op: the
// transport layer may signal the same disconnect more than once.
func (r *Registry) Deregister(userID, connID string) (last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.entries[userID]
	if !ok {
		return false
	}

	for i, id := range conns {
		if id == connID {
			conns = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(conns) == 0 {
		// The emptiness check and the delete happen under the same lock as
		// the removal, so no empty entry can ever be observed.
		delete(r.entries, userID)
		log.Debug().Str("userID", userID).Str("connID", connID).Msg("presence: user offline")
		return true
	}

	r.entries[userID] = conns
	return false
}

// OnlineUsers returns a snapshot of every user id with at least one active
// connection. Handed to a freshly connected client so it does not depend on
// having seen earlier online events.
func (r *Registry) OnlineUsers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]string, 0, len(r.entries))
	for userID := range r.entries {
		users = append(users, userID)
	}
	return users
}

// Connections returns the user's active connection ids in connect order.
func (r *Registry) Connections(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.entries[userID]
	out := make([]string, len(conns))
	copy(out, conns)
	return out
}

func (r *Registry) IsOnline(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries[userID]) > 0
}

// OnlineCount returns the number of distinct online users.
func (r *Registry) OnlineCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
