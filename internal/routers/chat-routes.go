package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	chat_handler "github.com/datb2404981/Chat-Nexa/internal/handlers/chat-handler"
	"github.com/datb2404981/Chat-Nexa/internal/middleware"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
	"github.com/datb2404981/Chat-Nexa/state"
)

func ChatRouter(r chi.Router, state *state.AppState, hub *websocket.Hub) {
	chatHandler := chat_handler.NewChatHandler(state, hub)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Post("/api/v1/messages", handlers.WrapHandler(chatHandler.SendMessage))
		protected.Get("/api/v1/conversations/{conversationId}/messages", handlers.WrapHandler(chatHandler.GetMessages))
		protected.Delete("/api/v1/messages/{messageId}", handlers.WrapHandler(chatHandler.DeleteMessage))
	})
}
