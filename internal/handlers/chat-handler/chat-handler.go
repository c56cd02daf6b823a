package chat_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/chat_dto"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/handlers"
	"github.com/datb2404981/Chat-Nexa/internal/middleware"
	message_service "github.com/datb2404981/Chat-Nexa/internal/use-case/message-case"
	"github.com/datb2404981/Chat-Nexa/state"
)

type ChatHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  message_service.MessageServiceContract
}

func NewChatHandler(state *state.AppState, ws message_service.Broadcaster) *ChatHandler {
	validate := validator.New()
	validate.RegisterValidation("objectID", chat_dto.ObjectIDValidator)
	return &ChatHandler{
		State:    state,
		Validate: validate,
		Service:  message_service.NewMessageService(state, ws),
	}
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req chat_dto.SendMessageRequest
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

	resp, err := h.Service.SendMessage(r.Context(), req, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("message sent successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	conversationID := chi.URLParam(r, "conversationId")

	req := chat_dto.GetMessagesRequest{
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

	resp, err := h.Service.GetMessages(r.Context(), req, conversationID, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("messages fetched successfully", *resp, handlers.RequestID(r)))
	return nil
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	messageID := chi.URLParam(r, "messageId")

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}

	resp, err := h.Service.DeleteMessage(r.Context(), messageID, userID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("message deleted successfully", *resp, handlers.RequestID(r)))
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
