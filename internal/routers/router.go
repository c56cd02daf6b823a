package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/datb2404981/Chat-Nexa/internal/middleware"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
	"github.com/datb2404981/Chat-Nexa/state"
)

func NewRouter(state *state.AppState, hub *websocket.Hub, wsHandler *websocket.WSHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.WithRequestId)

	UserRouter(r, state)
	FriendRouter(r, state)
	ConversationRouter(r, state, hub)
	ChatRouter(r, state, hub)
	HubRouter(r, hub)

	r.Get("/ws", wsHandler.HandleWS)
	return r
}
