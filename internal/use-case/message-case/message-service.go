package message_service

import (
	"context"
	"net/http"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/dtos"
	"github.com/datb2404981/Chat-Nexa/internal/dtos/chat_dto"
	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	chat_repo "github.com/datb2404981/Chat-Nexa/internal/repo/chat"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
	"github.com/datb2404981/Chat-Nexa/state"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type MessageService struct {
	AppState *state.AppState
	ChatRepo chat_repo.ChatRepoContract
	WS       Broadcaster
}

func NewMessageService(appState *state.AppState, ws Broadcaster) MessageServiceContract {
	return &MessageService{
		AppState: appState,
		ChatRepo: chat_repo.NewChatRepo(appState),
		WS:       ws,
	}
}

func (s *MessageService) SendMessage(ctx context.Context, req chat_dto.SendMessageRequest, senderID string) (*chat_dto.SendMessageResponse, *app_error.AppError) {
	conv, err := s.ChatRepo.FindConversationByID(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasMember(senderID) {
		return nil, app_error.NewAppError(http.StatusForbidden, "sender is not a member of this conversation", "forbidden")
	}

	msgType := req.Type
	if msgType == "" {
		msgType = entity.MessageTypeText
	}

	convID, _ := bson.ObjectIDFromHex(req.ConversationID)
	msg := &entity.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Content:        req.Content,
		Type:           msgType,
		FileURL:        req.FileURL,
		CreatedAt:      time.Now().UTC(),
	}

	msg, err = s.ChatRepo.CreateMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	summary := entity.LastMessage{
		MessageID: msg.ID,
		Content:   msg.PreviewContent(),
		SenderID:  senderID,
		CreatedAt: msg.CreatedAt,
	}
	recipients := make([]string, 0, len(conv.Members)-1)
	for _, m := range conv.Members {
		if m != senderID {
			recipients = append(recipients, m)
		}
	}

	updated, err := s.ChatRepo.ApplyMessageEffects(ctx, req.ConversationID, summary, recipients)
	if err != nil {
		// the message is durable but previews and counters were not
		// refreshed, so skip the broadcast and let the caller know
		log.Error().Str("message_id", msg.ID.Hex()).Str("conversation_id", req.ConversationID).Msg("message persisted but conversation update failed")
		return &chat_dto.SendMessageResponse{
			Message: msg,
			Warning: "message stored but conversation summary update failed",
		}, nil
	}

	// sending implies the sender has seen everything up to their own message
	if seen, applied, markErr := s.ChatRepo.ReplaceReadMarker(ctx, req.ConversationID, senderID, msg.CreatedAt); markErr != nil {
		log.Warn().Str("conversation_id", req.ConversationID).Str("user_id", senderID).Msg("failed to advance sender read marker")
	} else if applied {
		updated = seen
	}

	s.WS.BroadcastToRoom(req.ConversationID, websocket.EventNewMessage, websocket.NewMessagePayload{
		Message:      msg,
		Conversation: updated,
	})

	return &chat_dto.SendMessageResponse{
		Message:      msg,
		Conversation: updated,
	}, nil
}

func (s *MessageService) GetMessages(ctx context.Context, req chat_dto.GetMessagesRequest, conversationID, userID string) (*chat_dto.GetMessagesResponse, *app_error.AppError) {
	conv, err := s.ChatRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasMember(userID) {
		return nil, app_error.NewAppError(http.StatusForbidden, "user is not a member of this conversation", "forbidden")
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	limit := req.Limit
	if limit == 0 {
		limit = 20
	}

	msgs, total, err := s.ChatRepo.GetMessages(ctx, conversationID, page, limit)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &chat_dto.GetMessagesResponse{
		Messages: msgs,
		Meta: dtos.PageMeta{
			Current:  page,
			PageSize: limit,
			Pages:    pages,
			Total:    total,
		},
	}, nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, messageID, userID string) (*chat_dto.DeleteMessageResponse, *app_error.AppError) {
	msg, err := s.ChatRepo.FindMessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID {
		return nil, app_error.NewAppError(http.StatusForbidden, "only the sender can delete a message", "forbidden")
	}

	if err := s.ChatRepo.SoftDeleteMessage(ctx, messageID); err != nil {
		return nil, err
	}

	return &chat_dto.DeleteMessageResponse{Success: true}, nil
}
