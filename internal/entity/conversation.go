package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ReadMarker records how far one member has read a conversation. The
// conversation holds at most one marker per user; replacing it is the
// reconciliator's job.
type ReadMarker struct {
	UserID     string    `bson:"userId" json:"userId"`
	LastSeenAt time.Time `bson:"lastSeenAt" json:"lastSeenAt"`
}

// LastMessage is the denormalized preview of the newest message, kept on the
// conversation so list rendering never has to touch the messages collection.
type LastMessage struct {
	MessageID bson.ObjectID `bson:"messageId" json:"messageId"`
	Content   string        `bson:"content" json:"content"`
	SenderID  string        `bson:"senderId" json:"senderId"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type Conversation struct {
	ID           bson.ObjectID    `bson:"_id,omitempty" json:"_id"`
	IsGroup      bool             `bson:"isGroup" json:"isGroup"`
	Name         string           `bson:"name,omitempty" json:"name,omitempty"`
	Members      []string         `bson:"members" json:"members"`
	LastMessage  *LastMessage     `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	ReadBy       []ReadMarker     `bson:"readBy" json:"readBy"`
	UnreadCounts map[string]int64 `bson:"unreadCounts" json:"unreadCounts"`
	CreatedBy    string           `bson:"createdBy" json:"createdBy"`
	DeletedBy    []string         `bson:"deletedBy,omitempty" json:"-"`
	CreatedAt    time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// HasMember reports whether userID participates in the conversation.
func (c *Conversation) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ResolveCounterpart returns the other participant of a direct conversation.
// Group conversations have no single counterpart, so it reports false for
// them, as it does when selfID is not a member at all.
func (c *Conversation) ResolveCounterpart(selfID string) (string, bool) {
	if c.IsGroup || !c.HasMember(selfID) {
		return "", false
	}
	for _, m := range c.Members {
		if m != selfID {
			return m, true
		}
	}
	return "", false
}

// MarkerFor returns the read marker stored for userID, if any.
func (c *Conversation) MarkerFor(userID string) (ReadMarker, bool) {
	for _, rm := range c.ReadBy {
		if rm.UserID == userID {
			return rm, true
		}
	}
	return ReadMarker{}, false
}
