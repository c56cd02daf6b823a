package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	friend_handler "github.com/datb2404981/Chat-Nexa/internal/handlers/friend-handler"
	"github.com/datb2404981/Chat-Nexa/internal/middleware"
	"github.com/datb2404981/Chat-Nexa/state"
)

func FriendRouter(r chi.Router, state *state.AppState) {
	friendHandler := friend_handler.NewFriendHandler(state)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Post("/api/v1/friends/requests", handlers.WrapHandler(friendHandler.SendRequest))
		protected.Patch("/api/v1/friends/requests/{requestId}/accept", handlers.WrapHandler(friendHandler.Accept))
		protected.Get("/api/v1/friends", handlers.WrapHandler(friendHandler.ListFriends))
		protected.Delete("/api/v1/friends/{friendId}", handlers.WrapHandler(friendHandler.Unfriend))
	})
}
