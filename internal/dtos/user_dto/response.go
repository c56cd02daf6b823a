package user_dto

import "time"

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
	Refresh string       `json:"refresh"`
}
