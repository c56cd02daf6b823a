package message_service

import (
	"context"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/chat_dto"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
)

// Broadcaster is the slice of the hub the delivery pipeline needs. Services
// depend on this instead of the hub so tests can substitute a recorder.
type Broadcaster interface {
	BroadcastToRoom(roomID, event string, payload any)
	BroadcastToUser(userID, event string, payload any)
}

type MessageServiceContract interface {
	SendMessage(ctx context.Context, req chat_dto.SendMessageRequest, senderID string) (*chat_dto.SendMessageResponse, *app_error.AppError)
	GetMessages(ctx context.Context, req chat_dto.GetMessagesRequest, conversationID, userID string) (*chat_dto.GetMessagesResponse, *app_error.AppError)
	DeleteMessage(ctx context.Context, messageID, userID string) (*chat_dto.DeleteMessageResponse, *app_error.AppError)
}
