package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict allowed origins before exposing this outside dev
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	Hub          *Hub
	authenticate AuthenticatorFunc
}

func NewWSHandler(hub *Hub, auth AuthenticatorFunc) *WSHandler {
	return &WSHandler{
		Hub:          hub,
		authenticate: auth,
	}
}

// HandleWS runs the handshake. Authentication happens before the upgrade:
// a bad credential is rejected with 401 and no connection, registry entry or
// room membership ever exists for the attempt.
func (h *WSHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	identity, appErr := h.authenticate(r)
	if appErr != nil {
		log.Warn().Str("reason", appErr.Message).Msg("ws: handshake rejected")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(appErr.Code)
		_ = appErr.JSON(w)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws: upgrade failed")
		return
	}

	client := NewClient(*identity, conn, h.Hub)
	h.Hub.Connect(client)
	client.Start()
}
