package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/presence"
	"github.com/rs/zerolog/log"
)

// Hub is the room router. It maps conversation ids to the connections
// currently joined to them and fans events out. Authorization is the caller's
// problem: the hub is a mechanism, not a policy engine.
type Hub struct {
	registry *presence.Registry

	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[string]*Client // connection id -> client

	statsMu sync.RWMutex
	stats   HubStats
}

type HubStats struct {
	TotalRooms       int       `json:"total_rooms"`
	TotalClients     int       `json:"total_clients"`
	TotalConnections int64     `json:"total_connections"`
	EventsSent       int64     `json:"events_sent"`
	LastReset        time.Time `json:"last_reset"`
}

func NewHub(registry *presence.Registry) *Hub {
	return &Hub{
		registry: registry,
		rooms:    make(map[string]map[*Client]struct{}),
		clients:  make(map[string]*Client),
		stats: HubStats{
			LastReset: time.Now(),
		},
	}
}

// Registry exposes the presence view backing this hub.
func (h *Hub) Registry() *presence.Registry {
	return h.registry
}

// Connect wires an authenticated client into the hub: it becomes routable,
// presence is updated, the global online transition fires if this is the
// user's first device, and the client alone receives the current online
// snapshot so it never depends on having seen earlier status events.
func (h *Hub) Connect(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	first := h.registry.Register(client.Identity.UserID, client.ID)

	h.updateStats(func(stats *HubStats) {
		stats.TotalConnections++
	})

	// Snapshot after Register so the list includes the connecting user.
	client.SendEvent(EventInitialOnlineUsers, h.registry.OnlineUsers())

	if first {
		h.BroadcastAll(EventUserStatusChange, UserStatusChangePayload{
			UserID:   client.Identity.UserID,
			IsOnline: true,
		})
	}

	log.Info().Str("clientID", client.ID).Str("userID", client.Identity.UserID).Bool("firstDevice", first).Msg("ws: client connected")
}

// Disconnect is the single teardown path: the client leaves every room,
// stops being routable, and the offline transition fires if it was the
// user's last device. Idempotent, duplicate disconnect signals are no-ops.
func (h *Hub) Disconnect(client *Client) {
	h.mu.Lock()
	if _, known := h.clients[client.ID]; !known {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	for roomID, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	last := h.registry.Deregister(client.Identity.UserID, client.ID)
	if last {
		h.BroadcastAll(EventUserStatusChange, UserStatusChangePayload{
			UserID:   client.Identity.UserID,
			IsOnline: false,
		})
	}

	log.Info().Str("clientID", client.ID).Str("userID", client.Identity.UserID).Bool("lastDevice", last).Msg("ws: client disconnected")
}

// Join adds the client to a room. Joining twice is a no-op.
func (h *Hub) Join(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][client] = struct{}{}

	log.Debug().Str("roomID", roomID).Str("clientID", client.ID).Int("roomSize", len(h.rooms[roomID])).Msg("ws: client joined room")
}

// BroadcastToRoom delivers one event to every connection joined to roomID.
// A room with no members is a safe no-op.
func (h *Hub) BroadcastToRoom(roomID, event string, payload any) {
	h.broadcastRoom(roomID, event, payload, nil)
}

// BroadcastToRoomExcept is BroadcastToRoom minus the sending connection,
// used for relays the sender does not need echoed back.
func (h *Hub) BroadcastToRoomExcept(roomID string, except *Client, event string, payload any) {
	h.broadcastRoom(roomID, event, payload, except)
}

func (h *Hub) broadcastRoom(roomID, event string, payload any, except *Client) {
	data, err := json.Marshal(NewEnvelope(event, payload))
	if err != nil {
		log.Error().Err(err).Str("roomID", roomID).Str("event", event).Msg("ws: failed to marshal broadcast")
		return
	}

	h.mu.RLock()
	var targets []*Client
	if members, ok := h.rooms[roomID]; ok {
		targets = make([]*Client, 0, len(members))
		for client := range members {
			if client == except {
				continue
			}
			if client.IsActive() {
				targets = append(targets, client)
			}
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	// Sends are non-blocking: each client owns a bounded buffer and a full
	// one drops that client, never the broadcast to the others.
	for _, client := range targets {
		client.sendRaw(data)
	}

	h.updateStats(func(stats *HubStats) {
		stats.EventsSent += int64(len(targets))
	})

	log.Debug().Str("roomID", roomID).Str("event", event).Int("targets", len(targets)).Msg("ws: room broadcast completed")
}

// BroadcastToUser delivers an event to every one of the user's devices,
// regardless of which rooms they have joined. Used for account-level events
// such as a conversation the user was just added to.
func (h *Hub) BroadcastToUser(userID, event string, payload any) {
	connIDs := h.registry.Connections(userID)
	if len(connIDs) == 0 {
		return
	}

	data, err := json.Marshal(NewEnvelope(event, payload))
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Str("event", event).Msg("ws: failed to marshal user event")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(connIDs))
	for _, connID := range connIDs {
		if client, ok := h.clients[connID]; ok && client.IsActive() {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		client.sendRaw(data)
	}

	h.updateStats(func(stats *HubStats) {
		stats.EventsSent += int64(len(targets))
	})
}

// BroadcastAll delivers an event to every connected client. Presence
// transitions go through here.
func (h *Hub) BroadcastAll(event string, payload any) {
	data, err := json.Marshal(NewEnvelope(event, payload))
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("ws: failed to marshal global event")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		if client.IsActive() {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		client.sendRaw(data)
	}

	h.updateStats(func(stats *HubStats) {
		stats.EventsSent += int64(len(targets))
	})
}

// GetRoomClients returns all active clients joined to a room.
func (h *Hub) GetRoomClients(roomID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var clients []*Client
	if members, ok := h.rooms[roomID]; ok {
		for client := range members {
			if client.IsActive() {
				clients = append(clients, client)
			}
		}
	}
	return clients
}

// GetUserClients returns all active clients belonging to a user.
func (h *Hub) GetUserClients(userID string) []*Client {
	connIDs := h.registry.Connections(userID)

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*Client, 0, len(connIDs))
	for _, connID := range connIDs {
		if client, ok := h.clients[connID]; ok && client.IsActive() {
			clients = append(clients, client)
		}
	}
	return clients
}

func (h *Hub) GetRoomStats(roomID string) map[string]any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := map[string]any{
		"room_id": roomID,
		"exists":  false,
	}

	members, ok := h.rooms[roomID]
	if !ok {
		return stats
	}

	active := 0
	uniqueUsers := make(map[string]struct{})
	for client := range members {
		if client.IsActive() {
			active++
			uniqueUsers[client.Identity.UserID] = struct{}{}
		}
	}

	stats["exists"] = true
	stats["total_connections"] = len(members)
	stats["active_connections"] = active
	stats["unique_users"] = len(uniqueUsers)
	return stats
}

func (h *Hub) GetHubStats() HubStats {
	h.statsMu.RLock()
	stats := h.stats
	h.statsMu.RUnlock()

	h.mu.RLock()
	stats.TotalRooms = len(h.rooms)
	stats.TotalClients = len(h.clients)
	h.mu.RUnlock()

	return stats
}

func (h *Hub) updateStats(fn func(*HubStats)) {
	h.statsMu.Lock()
	fn(&h.stats)
	h.statsMu.Unlock()
}

// Close drops every client. Used on shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		all = append(all, client)
	}
	h.mu.RUnlock()

	for _, client := range all {
		client.Close()
	}

	log.Info().Int("clients", len(all)).Msg("ws: hub shutdown completed")
}
