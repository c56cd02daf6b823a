package friend_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/friend_dto"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	"github.com/datb2404981/Chat-Nexa/internal/middleware"
	friend_service "github.com/datb2404981/Chat-Nexa/internal/use-case/friend-case"
	"github.com/datb2404981/Chat-Nexa/state"
)

type FriendHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  friend_service.FriendServiceContract
}

func NewFriendHandler(state *state.AppState) *FriendHandler {
	return &FriendHandler{
		State:    state,
		Validate: validator.New(),
		Service:  friend_service.NewFriendService(state),
	}
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req friend_dto.SendFriendRequestRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, err := h.Service.SendRequest(r.Context(), req, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("friend request sent successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	requestID, err := strconv.ParseInt(chi.URLParam(r, "requestId"), 10, 64)
	if err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "invalid request id", "request_id")
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, appErr := h.Service.Accept(r.Context(), requestID, userID)
	if appErr != nil {
		return appErr
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("friend request accepted", *resp, handlers.RequestID(r)))
	return nil
}

func (h *FriendHandler) Unfriend(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	friendID := chi.URLParam(r, "friendId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, err := h.Service.Unfriend(r.Context(), userID, friendID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("friend removed successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, err := h.Service.ListFriends(r.Context(), userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("friends fetched successfully", *resp, handlers.RequestID(r)))
	return nil
}
