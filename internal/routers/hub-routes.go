package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	hub_handler "github.com/datb2404981/Chat-Nexa/internal/handlers/hub-handler"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
)

func HubRouter(r chi.Router, wsHub *websocket.Hub) {
	hubHandler := hub_handler.NewHubHandler(wsHub)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", hubHandler.HandleHealth)
		r.Get("/stats", handlers.WrapHandler(hubHandler.HandleGetStats))
		r.Get("/online", handlers.WrapHandler(hubHandler.HandleGetOnlineUsers))

		r.Route("/rooms/{roomId}", func(r chi.Router) {
			r.Get("/stats", handlers.WrapHandler(hubHandler.HandleGetRoomStats))
			r.Get("/clients", handlers.WrapHandler(hubHandler.HandleGetRoomClients))
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/status", handlers.WrapHandler(hubHandler.HandleGetUserStatus))
			r.Get("/connections", handlers.WrapHandler(hubHandler.HandleGetUserConnections))
		})
	})
}
