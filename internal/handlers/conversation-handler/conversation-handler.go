package conversation_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/conversation_dto"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	"github.com/datb2404981/Chat-Nexa/internal/middleware"
	conversation_service "github.com/datb2404981/Chat-Nexa/internal/use-case/conversation-case"
	"github.com/datb2404981/Chat-Nexa/state"
)

type ConversationHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  conversation_service.ConversationServiceContract
}

func NewConversationHandler(state *state.AppState, ws conversation_service.Broadcaster) *ConversationHandler {
	return &ConversationHandler{
		State:    state,
		Validate: validator.New(),
		Service:  conversation_service.NewConversationService(state, ws),
	}
}

func (h *ConversationHandler) CreateDirect(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req conversation_dto.CreateDirectConversationRequest
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

	resp, err := h.Service.CreateDirect(r.Context(), req, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("conversation created successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *ConversationHandler) CreateGroup(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req conversation_dto.CreateGroupConversationRequest
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

	resp, err := h.Service.CreateGroup(r.Context(), req, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("group conversation created successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	req := conversation_dto.ListConversationsRequest{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, err := h.Service.List(r.Context(), req, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("conversations fetched successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	conversationID := chi.URLParam(r, "conversationId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, err := h.Service.Get(r.Context(), conversationID, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("conversation fetched successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *ConversationHandler) MarkRead(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	conversationID := chi.URLParam(r, "conversationId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, err := h.Service.MarkRead(r.Context(), conversationID, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("conversation marked as read", *resp, handlers.RequestID(r)))
	return nil
}

func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	conversationID := chi.URLParam(r, "conversationId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, err := h.Service.Delete(r.Context(), conversationID, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("conversation deleted successfully", *resp, handlers.RequestID(r)))
	return nil
}

func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
