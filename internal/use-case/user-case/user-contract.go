package user_service

import (
	"context"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/user_dto"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
)

type UserServiceContract interface {
	Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError)
	Login(ctx context.Context, req user_dto.LoginRequest) (*user_dto.LoginResponse, *app_error.AppError)
	GetProfile(ctx context.Context, userID string) (*user_dto.UserResponse, *app_error.AppError)
}
