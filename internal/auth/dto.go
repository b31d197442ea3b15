// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type RegisterRequest struct {
	Name       string `json:"name"        validate:"required,min=1,max=100"`
	Email      string `json:"email"       validate:"required,email,max=255"`
	Password   string `json:"password"    validate:"required,min=8,max=128"`
	RoomNumber int    `json:"room_number" validate:"required,gt=0"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RoomNumber   int       `json:"room_number"`
	Role         string    `json:"role"`
	IsMessActive bool      `json:"is_mess_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		RoomNumber:   u.RoomNumber,
		Role:         u.Role,
		IsMessActive: u.IsMessActive,
		CreatedAt:    u.CreatedAt,
	}
}
