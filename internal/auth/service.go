// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/messhall/internal/core"
	"github.com/carterperez-dev/messhall/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account not active")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
)

const (
	registeredMessage = "Registration successful! Please check your email to verify your account."
	forgotMessage     = "If an account with that email exists, a password reset email has been sent."
	resetMessage      = "Your password has been reset successfully."

	resetClaimPrefix = "reset:"
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	RoomNumber   int
	IsActive     bool
	IsMessActive bool
	TokenVersion int
	CreatedAt    time.Time
}

type NewAccount struct {
	Name         string
	Email        string
	PasswordHash string
	RoomNumber   int
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, account NewAccount) (*UserInfo, error)
	Activate(ctx context.Context, userID string) error
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// Mailer queues account emails. A false return means the message was
// dropped; callers do not fail the request over it.
type Mailer interface {
	SendVerificationEmail(to, name, token string, validFor time.Duration) bool
	SendPasswordResetEmail(to, name, token string, validFor time.Duration) bool
}

type OnceClaimer interface {
	ClaimOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type Service struct {
	repo    Repository
	jwt     *JWTManager
	actions *ActionTokens
	users   UserProvider
	mailer  Mailer
	claims  OnceClaimer
	clock   core.Clock
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	actions *ActionTokens,
	users UserProvider,
	mailer Mailer,
	claims OnceClaimer,
) *Service {
	return &Service{
		repo:    repo,
		jwt:     jwt,
		actions: actions,
		users:   users,
		mailer:  mailer,
		claims:  claims,
		clock:   core.SystemClock{},
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*MessageResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, NewAccount{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		RoomNumber:   req.RoomNumber,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.actions.Issue(PurposeVerifyEmail, user.ID)
	if err != nil {
		return nil, err
	}

	if !s.mailer.SendVerificationEmail(
		user.Email, user.Name, token, s.actions.TTL(PurposeVerifyEmail),
	) {
		slog.Warn("verification email not queued", "user_id", user.ID)
	}

	return &MessageResponse{Message: registeredMessage}, nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.actions.Parse(token, PurposeVerifyEmail)
	if err != nil {
		return err
	}

	if err := s.users.Activate(ctx, claims.Subject); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("verify email: %w", core.ErrTokenInvalid)
		}
		return fmt.Errorf("activate user: %w", err)
	}

	return nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // keeps unknown emails as slow as wrong passwords
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	return s.issue(ctx, user, userAgent, ipAddress, "", "")
}

// Refresh rotates refreshToken. Presenting a token that was already rotated
// revokes its whole family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	if stored.IsUsed {
		return nil, s.reuseDetected(ctx, stored)
	}
	if stored.Revoked() {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	}
	if stored.Expired(s.clock.Now()) {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	nextID := uuid.New().String()
	if err := s.repo.MarkAsUsed(ctx, stored.ID, nextID); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, s.reuseDetected(ctx, stored)
		}
		return nil, err
	}

	return s.issue(ctx, user, userAgent, ipAddress, stored.FamilyID, nextID)
}

func (s *Service) reuseDetected(ctx context.Context, stored *Session) error {
	slog.Warn("refresh token reuse",
		"user_id", stored.UserID,
		"family_id", stored.FamilyID,
	)
	if err := s.repo.RevokeFamily(ctx, stored.FamilyID); err != nil {
		slog.Error("revoke session family", "family_id", stored.FamilyID, "error", err)
	}
	return ErrTokenReuse
}

// Logout revokes one refresh token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken, userID string) error {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find session: %w", err)
	}

	if stored.UserID != userID {
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	}

	return s.repo.Revoke(ctx, stored.ID)
}

// LogoutAll revokes every session and invalidates outstanding access tokens
// by bumping the token version.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}

	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return nil
}

func (s *Service) ForgotPassword(
	ctx context.Context,
	email string,
) (*MessageResponse, error) {
	resp := &MessageResponse{Message: forgotMessage}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return resp, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	token, err := s.actions.Issue(PurposeResetPassword, user.ID)
	if err != nil {
		return nil, err
	}

	if !s.mailer.SendPasswordResetEmail(
		user.Email, user.Name, token, s.actions.TTL(PurposeResetPassword),
	) {
		slog.Warn("password reset email not queued", "user_id", user.ID)
	}

	return resp, nil
}

// ResetPassword accepts each reset token once.
func (s *Service) ResetPassword(
	ctx context.Context,
	req ResetPasswordRequest,
) (*MessageResponse, error) {
	claims, err := s.actions.Parse(req.Token, PurposeResetPassword)
	if err != nil {
		return nil, err
	}

	first, err := s.claims.ClaimOnce(
		ctx,
		resetClaimPrefix+claims.ID,
		s.actions.TTL(PurposeResetPassword),
	)
	if err != nil {
		return nil, err
	}
	if !first {
		return nil, fmt.Errorf("reset password: token already used: %w", core.ErrTokenInvalid)
	}

	passwordHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, claims.Subject, passwordHash); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("reset password: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("update password: %w", err)
	}

	if err := s.LogoutAll(ctx, claims.Subject); err != nil {
		return nil, err
	}

	return &MessageResponse{Message: resetMessage}, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// VerifyAccessToken checks the signature and then the user's current token
// version, so logout-all and password resets take effect immediately. The
// returned role is the stored one.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if claims.TokenVersion < user.TokenVersion || !user.IsActive {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	claims.Role = user.Role
	return claims, nil
}

// PruneSessions deletes refresh tokens that expired before retention ago.
func (s *Service) PruneSessions(
	ctx context.Context,
	retention time.Duration,
) (int64, error) {
	return s.repo.DeleteExpiredBefore(ctx, s.clock.Now().Add(-retention))
}

func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	userAgent, ipAddress, familyID, sessionID string,
) (*AuthResponse, error) {
	accessToken, expiresAt, err := s.jwt.CreateAccessToken(middleware.AccessTokenClaims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, err
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	session := &Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: toUserResponse(user),
		Tokens: TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL() / time.Second),
			ExpiresAt:    expiresAt,
		},
	}, nil
}
