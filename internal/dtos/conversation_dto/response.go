package conversation_dto

import (
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/dtos"
	"github.com/datb2404981/Chat-Nexa/internal/entity"
)

// ConversationView is a conversation decorated with the fields list
// rendering needs: the resolved counterpart for direct chats and the
// caller's own unread count.
type ConversationView struct {
	*entity.Conversation
	ReceiverID  string `json:"receiverId,omitempty"`
	UnreadCount int64  `json:"unreadCount"`
}

type CreateConversationResponse struct {
	Conversation *entity.Conversation `json:"conversation"`
}

type ListConversationsResponse struct {
	Data []ConversationView `json:"data"`
	Meta dtos.PageMeta      `json:"meta"`
}

type GetConversationResponse struct {
	Conversation *entity.Conversation `json:"conversation"`
}

type MarkReadResponse struct {
	Success    bool      `json:"success"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

type DeleteConversationResponse struct {
	Deleted bool `json:"deleted"`
}
