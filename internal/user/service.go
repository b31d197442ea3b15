// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/messhall/internal/auth"
	"github.com/carterperez-dev/messhall/internal/core"
)

var (
	ErrDeleteSelf      = errors.New("cannot delete own account")
	ErrDeleteCommittee = errors.New("cannot delete a mess committee member")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create stores a new, unverified student account.
func (s *Service) Create(
	ctx context.Context,
	account auth.NewAccount,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(account.Name),
		Email:        normalizeEmail(account.Email),
		PasswordHash: account.PasswordHash,
		RoomNumber:   account.RoomNumber,
		Role:         RoleStudent,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Activate(ctx context.Context, userID string) error {
	return s.repo.Activate(ctx, userID)
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) IsMessActive(ctx context.Context, userID string) (bool, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsMessActive, nil
}

func (s *Service) ActivePushTokens(ctx context.Context) ([]string, error) {
	return s.repo.ActivePushTokens(ctx)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.RoomNumber != nil {
		user.RoomNumber = *req.RoomNumber
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) RegisterPushToken(ctx context.Context, userID, token string) error {
	if userID == "" {
		return fmt.Errorf("register push token: %w", core.ErrUnauthorized)
	}

	return s.repo.SetPushToken(ctx, userID, strings.TrimSpace(token))
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if !validRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) SetMessStatus(
	ctx context.Context,
	id string,
	active bool,
) (*User, error) {
	return s.repo.SetMessStatus(ctx, id, active)
}

// DeleteUser removes targetID on behalf of requesterID. Committee members
// cannot remove themselves or each other.
func (s *Service) DeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return fmt.Errorf("delete user: %w: %w", core.ErrForbidden, ErrDeleteSelf)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsMessCommittee() {
		return fmt.Errorf("delete user: %w: %w", core.ErrForbidden, ErrDeleteCommittee)
	}

	return s.repo.Delete(ctx, targetID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		RoomNumber:   u.RoomNumber,
		IsActive:     u.IsActive,
		IsMessActive: u.IsMessActive,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
