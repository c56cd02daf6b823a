package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	user_handler "github.com/datb2404981/Chat-Nexa/internal/handlers/user-handler"
	"github.com/datb2404981/Chat-Nexa/internal/middleware"
	"github.com/datb2404981/Chat-Nexa/state"
)

func UserRouter(r chi.Router, state *state.AppState) {
	userHandler := user_handler.NewUserHandler(state)

	r.Post("/api/v1/users", handlers.WrapHandler(userHandler.CreateUser))
	r.Post("/api/v1/users/login", handlers.WrapHandler(userHandler.LoginUser))

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.JWTAuth(state.JwtSecret.Public))
		protected.Get("/api/v1/users/me", handlers.WrapHandler(userHandler.GetMe))
	})
}
