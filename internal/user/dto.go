// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateUserRequest struct {
	Name       *string `json:"name,omitempty"        validate:"omitnil,min=1,max=100"`
	RoomNumber *int    `json:"room_number,omitempty" validate:"omitnil,gt=0"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student convenor mess_committee"`
}

type UpdateMessStatusRequest struct {
	IsMessActive *bool `json:"is_mess_active" validate:"required"`
}

type PushTokenRequest struct {
	Token string `json:"token" validate:"required,max=4096"`
}

type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RoomNumber   int       `json:"room_number"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsMessActive bool      `json:"is_mess_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		RoomNumber:   u.RoomNumber,
		Role:         u.Role,
		IsActive:     u.IsActive,
		IsMessActive: u.IsMessActive,
		CreatedAt:    u.CreatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
