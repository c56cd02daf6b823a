package entity

import (
	"time"
)

const (
	FriendStatusPending  = "PENDING"
	FriendStatusAccepted = "ACCEPTED"
	FriendStatusRejected = "REJECTED"
)

type Friendship struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	RequesterID string    `gorm:"not null;index:idx_friend_pair,unique" json:"requester_id"`
	ReceiverID  string    `gorm:"not null;index:idx_friend_pair,unique" json:"receiver_id"`
	Status      string    `gorm:"not null" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Involves reports whether userID is on either side of the friendship.
func (f *Friendship) Involves(userID string) bool {
	return f.RequesterID == userID || f.ReceiverID == userID
}
