package user_service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/user_dto"
	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	user_repo "github.com/datb2404981/Chat-Nexa/internal/repo/user"
	"github.com/datb2404981/Chat-Nexa/internal/utils"
	"github.com/datb2404981/Chat-Nexa/internal/utils/types"
	"github.com/datb2404981/Chat-Nexa/state"
	"github.com/google/uuid"
)

const sessionTTL = 7 * 24 * time.Hour

type UserService struct {
	AppState *state.AppState
	UserRepo user_repo.UserRepoContract
}

func NewUserService(appState *state.AppState) UserServiceContract {
	return &UserService{
		AppState: appState,
		UserRepo: user_repo.NewUserRepo(appState),
	}
}

func (u *UserService) Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError) {
	filter := entity.UserFilter{
		Email:    &req.Email,
		Username: &req.Username,
	}
	count, err := u.UserRepo.CountUser(ctx, filter)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, app_error.NewAppError(http.StatusConflict, "username or email already registered", "credential-registered")
	}

	hashed, hashErr := utils.GenerateHash(req.Password)
	if hashErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, hashErr.Error(), "password")
	}

	user := entity.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
	}

	if err := u.UserRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	return &user_dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (u *UserService) GetProfile(ctx context.Context, userID string) (*user_dto.UserResponse, *app_error.AppError) {
	user, err := u.UserRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &user_dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (u *UserService) Login(ctx context.Context, req user_dto.LoginRequest) (*user_dto.LoginResponse, *app_error.AppError) {
	user, err := u.UserRepo.FindUserByCredential(ctx, req.Username)
	if err != nil {
		if err.Code == http.StatusNotFound {
			return nil, app_error.NewAppError(http.StatusUnauthorized, "invalid username or password", "credential")
		}
		return nil, err
	}

	ok, verifyErr := utils.VerifyHash(user.PasswordHash, req.Password)
	if verifyErr != nil || !ok {
		return nil, app_error.NewAppError(http.StatusUnauthorized, "invalid username or password", "credential")
	}

	access, refresh, jti, signErr := utils.IssueNewTokens(user.ID, user.Username, user.Email, u.AppState.JwtSecret.Private)
	if signErr != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to issue tokens", "jwt")
	}

	now := time.Now()
	session := types.RefreshSession{
		UserId:   user.ID,
		JTI:      jti,
		IssueAt:  now.Unix(),
		ExpireAt: now.Add(sessionTTL).Unix(),
		Status:   "active",
	}
	sessionKey := fmt.Sprintf("session:%s", user.ID)
	if err := utils.SetCacheData(ctx, u.AppState.Redis, sessionKey, &session, sessionTTL); err != nil {
		return nil, app_error.NewAppError(http.StatusInternalServerError, "failed to store session", "redis")
	}

	return &user_dto.LoginResponse{
		User: user_dto.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
		Token:   access,
		Refresh: refresh,
	}, nil
}
