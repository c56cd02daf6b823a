package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	conversation_handler "github.com/datb2404981/Chat-Nexa/internal/handlers/conversation-handler"
	"github.com/datb2404981/Chat-Nexa/internal/middleware"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
	"github.com/datb2404981/Chat-Nexa/state"
)

func ConversationRouter(r chi.Router, state *state.AppState, hub *websocket.Hub) {
	conversationHandler := conversation_handler.NewConversationHandler(state, hub)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Post("/api/v1/conversations/direct", handlers.WrapHandler(conversationHandler.CreateDirect))
		protected.Post("/api/v1/conversations/group", handlers.WrapHandler(conversationHandler.CreateGroup))
		protected.Get("/api/v1/conversations", handlers.WrapHandler(conversationHandler.List))
		protected.Get("/api/v1/conversations/{conversationId}", handlers.WrapHandler(conversationHandler.Get))
		protected.Patch("/api/v1/conversations/{conversationId}/read", handlers.WrapHandler(conversationHandler.MarkRead))
		protected.Delete("/api/v1/conversations/{conversationId}", handlers.WrapHandler(conversationHandler.Delete))
	})
}
