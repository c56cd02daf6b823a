package conversation_service

import (
	"context"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/conversation_dto"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
)

// Broadcaster covers the hub operations conversation flows emit through.
type Broadcaster interface {
	BroadcastToRoom(roomID, event string, payload any)
}

type ConversationServiceContract interface {
	CreateDirect(ctx context.Context, req conversation_dto.CreateDirectConversationRequest, userID string) (*conversation_dto.CreateConversationResponse, *app_error.AppError)
	CreateGroup(ctx context.Context, req conversation_dto.CreateGroupConversationRequest, userID string) (*conversation_dto.CreateConversationResponse, *app_error.AppError)
	List(ctx context.Context, req conversation_dto.ListConversationsRequest, userID string) (*conversation_dto.ListConversationsResponse, *app_error.AppError)
	Get(ctx context.Context, conversationID, userID string) (*conversation_dto.GetConversationResponse, *app_error.AppError)
	MarkRead(ctx context.Context, conversationID, userID string) (*conversation_dto.MarkReadResponse, *app_error.AppError)
	Delete(ctx context.Context, conversationID, userID string) (*conversation_dto.DeleteConversationResponse, *app_error.AppError)
}
