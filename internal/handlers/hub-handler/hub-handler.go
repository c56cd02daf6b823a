package hub_handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
)

type HubHandler struct {
	Hub *websocket.Hub
}

func NewHubHandler(hub *websocket.Hub) *HubHandler {
	return &HubHandler{
		Hub: hub,
	}
}

func (h *HubHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "chat-nexa",
	})
}

func (h *HubHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	stats := h.Hub.GetHubStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("get websocket stats", stats, handlers.RequestID(r)))
	return nil
}

func (h *HubHandler) HandleGetOnlineUsers(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	online := h.Hub.Registry().OnlineUsers()

	resp := map[string]any{
		"count": len(online),
		"users": online,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("get online users", resp, handlers.RequestID(r)))
	return nil
}

func (h *HubHandler) HandleGetRoomStats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")
	stats := h.Hub.GetRoomStats(roomID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("get websocket room stats", stats, handlers.RequestID(r)))
	return nil
}

func (h *HubHandler) HandleGetRoomClients(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	roomID := chi.URLParam(r, "roomId")
	clients := h.Hub.GetRoomClients(roomID)

	type ClientInfo struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		ConnectedAt time.Time `json:"connected_at"`
		LastSeen    time.Time `json:"last_seen"`
	}

	var clientList []ClientInfo
	for _, client := range clients {
		clientList = append(clientList, ClientInfo{
			ID:          client.ID,
			UserID:      client.Identity.UserID,
			ConnectedAt: client.ConnectedAt,
			LastSeen:    client.GetLastSeen(),
		})
	}

	resp := map[string]any{
		"room_id": roomID,
		"count":   len(clientList),
		"clients": clientList,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("successfully get room clients", resp, handlers.RequestID(r)))
	return nil
}

func (h *HubHandler) HandleGetUserStatus(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID := chi.URLParam(r, "userId")

	registry := h.Hub.Registry()
	resp := map[string]any{
		"user_id":        userID,
		"online":         registry.IsOnline(userID),
		"active_clients": len(registry.Connections(userID)),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("successful get user status", resp, handlers.RequestID(r)))
	return nil
}

func (h *HubHandler) HandleGetUserConnections(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID := chi.URLParam(r, "userId")
	clients := h.Hub.GetUserClients(userID)

	type ConnectionInfo struct {
		ClientID    string    `json:"client_id"`
		ConnectedAt time.Time `json:"connected_at"`
		LastSeen    time.Time `json:"last_seen"`
		IsActive    bool      `json:"is_active"`
	}

	var connections []ConnectionInfo
	for _, client := range clients {
		connections = append(connections, ConnectionInfo{
			ClientID:    client.ID,
			ConnectedAt: client.ConnectedAt,
			LastSeen:    client.GetLastSeen(),
			IsActive:    client.IsActive(),
		})
	}

	resp := map[string]any{
		"user_id":     userID,
		"count":       len(connections),
		"connections": connections,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("successfully get user connections", resp, handlers.RequestID(r)))
	return nil
}
