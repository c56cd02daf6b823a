package user_repo

import (
	"context"

	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
)

type UserRepoContract interface {
	CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError)
	SaveUser(ctx context.Context, model entity.User) *app_error.AppError
	FindUserByCredential(ctx context.Context, username string) (*entity.User, *app_error.AppError)
	FindUserByID(ctx context.Context, userID string) (*entity.User, *app_error.AppError)
	FindUsersByIDs(ctx context.Context, userIDs []string) ([]*entity.User, *app_error.AppError)

	CreateFriendRequest(ctx context.Context, requesterID, receiverID string) (*entity.Friendship, *app_error.AppError)
	// FindFriendship looks up the pair in either direction and returns nil
	// (no error) when none exists.
	FindFriendship(ctx context.Context, userA, userB string) (*entity.Friendship, *app_error.AppError)
	AcceptFriendRequest(ctx context.Context, requestID int64, receiverID string) (*entity.Friendship, *app_error.AppError)
	DeleteFriendship(ctx context.Context, userA, userB string) *app_error.AppError
	ListFriends(ctx context.Context, userID string) ([]*entity.User, *app_error.AppError)
}
