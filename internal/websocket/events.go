package websocket

import (
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/entity"
)

// Event names exchanged with clients. Every emission site builds its payload
// from the types below so the wire shapes stay consistent across the codebase.
const (
	// inbound (client -> server)
	EventJoinRoom = "join_room"
	EventTyping   = "typing"

	// outbound (server -> client)
	EventInitialOnlineUsers    = "initial_online_users"
	EventUserStatusChange      = "user_status_change"
	EventJoinedRoom            = "joined_room"
	EventOnTyping              = "on_typing"
	EventNewMessage            = "new_message"
	EventConversationSeen      = "on_conversation_seen"
	EventNewFriendRequest      = "new_friend_request"
	EventFriendRequestAccepted = "friend_request_accepted"
	EventNewConversation       = "on_new_conversation"
)

// Envelope is the frame every outbound event is wrapped in.
type Envelope struct {
	Event     string `json:"event"`
	Payload   any    `json:"payload"`
	Timestamp int64  `json:"timestamp"`
}

func NewEnvelope(event string, payload any) Envelope {
	return Envelope{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}
}

// Inbound is the frame clients send. Data carries the conversation id for
// both join_room and typing.
type Inbound struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

type UserStatusChangePayload struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

type TypingPayload struct {
	UserID string `json:"userId"`
}

// NewMessagePayload carries the persisted message together with the refreshed
// conversation snapshot, so one event updates both the thread view and the
// conversation-list preview.
type NewMessagePayload struct {
	Message      *entity.Message      `json:"message"`
	Conversation *entity.Conversation `json:"conversation"`
}

type ConversationSeenPayload struct {
	ConversationID string    `json:"conversationId"`
	UserID         string    `json:"userId"`
	LastSeenAt     time.Time `json:"lastSeenAt"`
}

type NewConversationPayload struct {
	Conversation *entity.Conversation `json:"conversation"`
}
