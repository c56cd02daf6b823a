package chat_dto

import (
	"github.com/datb2404981/Chat-Nexa/internal/dtos"
	"github.com/datb2404981/Chat-Nexa/internal/entity"
)

type SendMessageResponse struct {
	Message      *entity.Message      `json:"message"`
	Conversation *entity.Conversation `json:"conversation,omitempty"`
	// Warning is set when the message persisted but the conversation
	// summary/counter update failed; list previews may be stale.
	Warning string `json:"warning,omitempty"`
}

type GetMessagesResponse struct {
	Messages []*entity.Message `json:"messages"`
	Meta     dtos.PageMeta     `json:"meta"`
}

type DeleteMessageResponse struct {
	Success bool `json:"success"`
}
