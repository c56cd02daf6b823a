package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	MessageTypeText  = "TEXT"
	MessageTypeImage = "IMAGE"
	MessageTypeFile  = "FILE"
)

type Message struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	ConversationID bson.ObjectID `bson:"conversationId" json:"conversationId"`
	SenderID       string        `bson:"senderId" json:"senderId"`
	Content        string        `bson:"content" json:"content"`
	Type           string        `bson:"type" json:"type"`
	FileURL        string        `bson:"fileUrl,omitempty" json:"fileUrl,omitempty"`
	Deleted        bool          `bson:"deleted,omitempty" json:"deleted,omitempty"`
	DeletedAt      *time.Time    `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
}

// PreviewContent is what lands in the conversation's lastMessage summary.
// Media messages get a fixed placeholder instead of their URL so list
// previews stay compact.
func (m *Message) PreviewContent() string {
	switch m.Type {
	case MessageTypeImage:
		return "Sent an image"
	case MessageTypeFile:
		return "Sent a file"
	default:
		return m.Content
	}
}
