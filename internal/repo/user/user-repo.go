package user_repo

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/state"
	"gorm.io/gorm"
)

type UserRepo struct {
	AppState *state.AppState
}

func NewUserRepo(appState *state.AppState) UserRepoContract {
	return &UserRepo{
		AppState: appState,
	}
}

func (r *UserRepo) CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError) {
	var count int64

	query := r.AppState.DB.WithContext(ctx).Model(&entity.User{})

	if filter.Email != nil {
		query = query.Where("email = ?", filter.Email)
	}

	if filter.Username != nil {
		query = query.Where("username = ?", filter.Username)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, app_error.NewAppError(http.StatusInternalServerError, "unexpected server error", "db-count")
	}
	return count, nil
}

func (r *UserRepo) SaveUser(ctx context.Context, model entity.User) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(&model).Error; err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when trying to create user", "db-create")
	}

	return nil
}

func (r *UserRepo) FindUserByCredential(ctx context.Context, username string) (*entity.User, *app_error.AppError) {
	var user entity.User

	if err := r.AppState.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "cannot find user", "user-credential")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch user", "db-error")
	}

	return &user, nil
}

func (r *UserRepo) FindUserByID(ctx context.Context, userID string) (*entity.User, *app_error.AppError) {
	var user entity.User

	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "cannot find user", "user-id")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch user", "db-error")
	}

	return &user, nil
}

func (r *UserRepo) FindUsersByIDs(ctx context.Context, userIDs []string) ([]*entity.User, *app_error.AppError) {
	var users []*entity.User

	if len(userIDs) == 0 {
		return users, nil
	}

	if err := r.AppState.DB.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch users", "db-error")
	}

	return users, nil
}

func (r *UserRepo) CreateFriendRequest(ctx context.Context, requesterID, receiverID string) (*entity.Friendship, *app_error.AppError) {
	friendship := entity.Friendship{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      entity.FriendStatusPending,
	}

	if err := r.AppState.DB.WithContext(ctx).Create(&friendship).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, app_error.NewAppError(http.StatusConflict, "friend request already exists", "friend-request")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when creating friend request", "db-create")
	}

	return &friendship, nil
}

func (r *UserRepo) FindFriendship(ctx context.Context, userA, userB string) (*entity.Friendship, *app_error.AppError) {
	var friendship entity.Friendship

	err := r.AppState.DB.WithContext(ctx).
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch friendship", "db-error")
	}

	return &friendship, nil
}

func (r *UserRepo) AcceptFriendRequest(ctx context.Context, requestID int64, receiverID string) (*entity.Friendship, *app_error.AppError) {
	var friendship entity.Friendship

	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", requestID).First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NewAppError(http.StatusNotFound, "friend request not found", "not-found")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch friend request", "db-error")
	}

	if friendship.ReceiverID != receiverID {
		return nil, app_error.NewAppError(http.StatusForbidden, "only the receiver can accept a friend request", "forbidden")
	}

	if friendship.Status != entity.FriendStatusPending {
		return nil, app_error.NewAppError(http.StatusConflict, "friend request is no longer pending", "friend-request")
	}

	friendship.Status = entity.FriendStatusAccepted
	if err := r.AppState.DB.WithContext(ctx).Model(&friendship).Update("status", entity.FriendStatusAccepted).Error; err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when accepting friend request", "db-update")
	}

	return &friendship, nil
}

func (r *UserRepo) DeleteFriendship(ctx context.Context, userA, userB string) *app_error.AppError {
	res := r.AppState.DB.WithContext(ctx).
		Where("(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Delete(&entity.Friendship{})
	if res.Error != nil {
		return app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when deleting friendship", "db-delete")
	}
	if res.RowsAffected == 0 {
		return app_error.NewAppError(http.StatusNotFound, "friendship not found", "not-found")
	}
	return nil
}

func (r *UserRepo) ListFriends(ctx context.Context, userID string) ([]*entity.User, *app_error.AppError) {
	var friendships []entity.Friendship

	err := r.AppState.DB.WithContext(ctx).
		Where("(requester_id = ? OR receiver_id = ?) AND status = ?", userID, userID, entity.FriendStatusAccepted).
		Find(&friendships).Error
	if err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "unexpected error occur when fetch friendships", "db-error")
	}

	friendIDs := make([]string, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			friendIDs = append(friendIDs, f.ReceiverID)
		} else {
			friendIDs = append(friendIDs, f.RequesterID)
		}
	}

	return r.FindUsersByIDs(ctx, friendIDs)
}
