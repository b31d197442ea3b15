// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	RoomNumber   int       `db:"room_number"`
	Role         string    `db:"role"`
	IsActive     bool      `db:"is_active"`
	IsMessActive bool      `db:"is_mess_active"`
	PushToken    *string   `db:"push_token"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsMessCommittee() bool {
	return u.Role == RoleMessCommittee
}

const (
	RoleStudent       = "student"
	RoleConvenor      = "convenor"
	RoleMessCommittee = "mess_committee"
)

func validRole(role string) bool {
	switch role {
	case RoleStudent, RoleConvenor, RoleMessCommittee:
		return true
	}
	return false
}
