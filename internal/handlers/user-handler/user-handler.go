package user_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/user_dto"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	"github.com/datb2404981/Chat-Nexa/internal/middleware"
	user_service "github.com/datb2404981/Chat-Nexa/internal/use-case/user-case"
	"github.com/datb2404981/Chat-Nexa/state"
)

type UserHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  user_service.UserServiceContract
}

func NewUserHandler(state *state.AppState) *UserHandler {
	return &UserHandler{
		State:    state,
		Validate: validator.New(),
		Service:  user_service.NewUserService(state),
	}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.CreateUserRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.Register(r.Context(), req)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("user registered successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, err := h.Service.GetProfile(r.Context(), userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("profile fetched successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *UserHandler) LoginUser(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.LoginRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.Login(r.Context(), req)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    resp.Refresh,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("login successful", *resp, handlers.RequestID(r)))
	return nil
}
