package friend_dto

import (
	"github.com/datb2404981/Chat-Nexa/internal/entity"
)

type FriendRequestResponse struct {
	Request *entity.Friendship `json:"request"`
}

type ListFriendsResponse struct {
	Friends []*entity.User `json:"friends"`
}

type UnfriendResponse struct {
	Removed bool `json:"removed"`
}
