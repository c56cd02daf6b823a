package chat_repo

import (
	"context"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
)

// ChatRepoContract is the document-store boundary for conversations and
// messages. Updates that the callers rely on being atomic (summary plus
// counters, marker replacement) are each a single conditional document
// update; the repo never splits one logical event across interleavable
// writes.
type ChatRepoContract interface {
	CreateConversation(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, *app_error.AppError)
	FindConversationByID(ctx context.Context, id string) (*entity.Conversation, *app_error.AppError)
	// FindDirectConversation returns nil (no error) when the pair has no
	// existing direct conversation.
	FindDirectConversation(ctx context.Context, userA, userB string) (*entity.Conversation, *app_error.AppError)
	ListConversations(ctx context.Context, userID string, page, limit int) ([]*entity.Conversation, int64, *app_error.AppError)
	RestoreForUser(ctx context.Context, convID, userID string) *app_error.AppError
	SoftDeleteForUser(ctx context.Context, convID, userID string) *app_error.AppError

	CreateMessage(ctx context.Context, msg *entity.Message) (*entity.Message, *app_error.AppError)
	FindMessageByID(ctx context.Context, id string) (*entity.Message, *app_error.AppError)
	SoftDeleteMessage(ctx context.Context, id string) *app_error.AppError
	GetMessages(ctx context.Context, convID string, page, limit int) ([]*entity.Message, int64, *app_error.AppError)

	// ApplyMessageEffects writes the refreshed lastMessage summary and
	// increments every recipient's unread counter in one atomic update,
	// returning the updated conversation.
	ApplyMessageEffects(ctx context.Context, convID string, summary entity.LastMessage, recipients []string) (*entity.Conversation, *app_error.AppError)

	// ReplaceReadMarker swaps the (conversation, user) read marker for one
	// stamped ts and zeroes the user's unread counter. Markers only move
	// forward: a ts at or before the stored marker is discarded and applied
	// reports false.
	ReplaceReadMarker(ctx context.Context, convID, userID string, ts time.Time) (conv *entity.Conversation, applied bool, err *app_error.AppError)
}
