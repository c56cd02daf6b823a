package friend_service

import (
	"context"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/friend_dto"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
)

type FriendServiceContract interface {
	SendRequest(ctx context.Context, req friend_dto.SendFriendRequestRequest, requesterID string) (*friend_dto.FriendRequestResponse, *app_error.AppError)
	Accept(ctx context.Context, requestID int64, receiverID string) (*friend_dto.FriendRequestResponse, *app_error.AppError)
	Unfriend(ctx context.Context, userID, friendID string) (*friend_dto.UnfriendResponse, *app_error.AppError)
	ListFriends(ctx context.Context, userID string) (*friend_dto.ListFriendsResponse, *app_error.AppError)
}
